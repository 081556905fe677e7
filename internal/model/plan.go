package model

import "time"

// ProjectPlan is one raw project-plan entry, typically extracted from an
// uploaded report. These entries back the priority ranking.
type ProjectPlan struct {
	CreatedAt     time.Time `json:"created_at"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	EstimatedCost float64   `json:"estimated_cost"`
	DurationYears float64   `json:"duration_years"`
	ID            int64     `json:"id"`
}
