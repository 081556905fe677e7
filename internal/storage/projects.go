package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
)

// GetProjects returns project records matching the filter, most-reported
// first. Empty filter fields match everything.
func (s *SQLiteStorage) GetProjects(ctx context.Context, filter service.ProjectFilter) ([]model.ProjectRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, sector, lat, lon, area, count, cluster_points, created_at, updated_at
		FROM projects
		WHERE (? = '' OR name = ?)
		  AND (? = '' OR sector = ?)
		ORDER BY count DESC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, filter.Name, filter.Name, filter.Sector, filter.Sector)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var records []model.ProjectRecord
	for rows.Next() {
		record, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	slog.Debug("retrieved projects", "count", len(records))
	return records, nil
}

// GetProjectByID returns a single project record.
func (s *SQLiteStorage) GetProjectByID(ctx context.Context, id string) (*model.ProjectRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, sector, lat, lon, area, count, cluster_points, created_at, updated_at
		FROM projects
		WHERE id = ?`, id)

	record, err := scanProject(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// UpsertProject inserts or replaces a project record by identity.
func (s *SQLiteStorage) UpsertProject(ctx context.Context, record *model.ProjectRecord) (*model.ProjectRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateProject(record); err != nil {
		return nil, err
	}

	points, err := json.Marshal(record.Members)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cluster points: %w", err)
	}

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, sector, lat, lon, area, count, cluster_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			sector = excluded.sector,
			lat = excluded.lat,
			lon = excluded.lon,
			area = excluded.area,
			count = excluded.count,
			cluster_points = excluded.cluster_points,
			updated_at = excluded.updated_at`,
		record.ID, record.Name, record.Sector,
		record.Location.Lat, record.Location.Lon,
		record.Area, record.Count, string(points),
		record.CreatedAt, record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert project: %w", err)
	}

	return record, nil
}

// DeleteProject removes a project record by identity.
func (s *SQLiteStorage) DeleteProject(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("project %s: %w", id, common.ErrNotFound)
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for shared scan logic.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*model.ProjectRecord, error) {
	var record model.ProjectRecord
	var points string

	err := row.Scan(
		&record.ID, &record.Name, &record.Sector,
		&record.Location.Lat, &record.Location.Lon,
		&record.Area, &record.Count, &points,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	if err := json.Unmarshal([]byte(points), &record.Members); err != nil {
		return nil, fmt.Errorf("%w: bad cluster points for project %s: %v", common.ErrDatabaseCorrupted, record.ID, err)
	}

	return &record, nil
}
