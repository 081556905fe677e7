package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// GetPlans returns every raw project-plan entry in insertion order.
func (s *SQLiteStorage) GetPlans(ctx context.Context) ([]model.ProjectPlan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, estimated_cost, duration_years, created_at
		FROM project_plans
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []model.ProjectPlan
	for rows.Next() {
		var p model.ProjectPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.EstimatedCost, &p.DurationYears, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return plans, nil
}

// AddPlan appends a raw project-plan entry.
func (s *SQLiteStorage) AddPlan(ctx context.Context, plan *model.ProjectPlan) (*model.ProjectPlan, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO project_plans (name, category, estimated_cost, duration_years, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		plan.Name, plan.Category, plan.EstimatedCost, plan.DurationYears, plan.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert plan: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read plan id: %w", err)
	}
	plan.ID = id

	return plan, nil
}
