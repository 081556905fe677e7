package model

import (
	"fmt"
	"time"
)

// PrioritizedProject is the derived ranking view for one project plan. It is
// recomputed in full from the backing plan batch and never patched in place.
type PrioritizedProject struct {
	ComputedAt    time.Time `json:"computed_at"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	DurationScore float64   `json:"duration_score"` // 1 - minmax(duration); higher is better
	CostScore     float64   `json:"cost_score"`     // 1 - minmax(cost); higher is better
	Weight        float64   `json:"weight"`         // Category weight from the policy table
	Priority      float64   `json:"priority"`       // Composite score
	Rank          int       `json:"rank"`           // 1-based position in the ranked order
}

// Validate ensures the derived view is internally consistent.
func (p *PrioritizedProject) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("prioritized project requires a name")
	}
	if p.Rank < 1 {
		return fmt.Errorf("rank must be 1-based, got %d", p.Rank)
	}
	if p.DurationScore < 0 || p.DurationScore > 1 {
		return fmt.Errorf("duration score out of range: %.4f", p.DurationScore)
	}
	if p.CostScore < 0 || p.CostScore > 1 {
		return fmt.Errorf("cost score out of range: %.4f", p.CostScore)
	}
	return nil
}

// PrioritizedProjects is an ordered ranking with utility methods.
type PrioritizedProjects []PrioritizedProject

// Top returns the highest-priority project, or nil if the view is empty.
func (r PrioritizedProjects) Top() *PrioritizedProject {
	if len(r) == 0 {
		return nil
	}
	return &r[0]
}

// Validate ensures every entry is valid and ranks form a 1..n sequence.
func (r PrioritizedProjects) Validate() error {
	for i := range r {
		if err := r[i].Validate(); err != nil {
			return fmt.Errorf("invalid entry at index %d: %w", i, err)
		}
		if r[i].Rank != i+1 {
			return fmt.Errorf("rank gap at index %d: got %d", i, r[i].Rank)
		}
	}
	return nil
}
