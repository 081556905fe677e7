package storage

import (
	"context"
	"fmt"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// ReplaceRanking atomically swaps the derived ranked view. Readers observe
// either the fully-old or fully-new ranking, never a partial mixture.
func (s *SQLiteStorage) ReplaceRanking(ctx context.Context, ranking model.PrioritizedProjects) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := ranking.Validate(); err != nil {
		return fmt.Errorf("refusing to store invalid ranking: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_rankings`); err != nil {
		return fmt.Errorf("failed to clear ranking: %w", err)
	}

	for _, p := range ranking {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO project_rankings (rank, name, category, duration_score, cost_score, weight, priority, computed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Rank, p.Name, p.Category, p.DurationScore, p.CostScore, p.Weight, p.Priority, p.ComputedAt)
		if err != nil {
			return fmt.Errorf("failed to insert ranking entry %d: %w", p.Rank, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranking: %w", err)
	}

	return nil
}

// GetRanking returns the stored ranked view in rank order.
func (s *SQLiteStorage) GetRanking(ctx context.Context) (model.PrioritizedProjects, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT rank, name, category, duration_score, cost_score, weight, priority, computed_at
		FROM project_rankings
		ORDER BY rank ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking: %w", err)
	}
	defer rows.Close()

	var ranking model.PrioritizedProjects
	for rows.Next() {
		var p model.PrioritizedProject
		if err := rows.Scan(&p.Rank, &p.Name, &p.Category, &p.DurationScore, &p.CostScore, &p.Weight, &p.Priority, &p.ComputedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ranking entry: %w", err)
		}
		ranking = append(ranking, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking: %w", err)
	}

	return ranking, nil
}
