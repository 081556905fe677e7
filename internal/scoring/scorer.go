// Package scoring computes the composite priority ranking over project
// plans for resource-allocation decisions.
package scoring

import (
	"sort"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// Composite score policy. The coefficients are a fixed allocation policy,
// not derived from data.
const (
	weightCoefficient   = 0.5
	durationCoefficient = 0.25
	costCoefficient     = 0.25
)

// Weights maps a project category to its policy weight. Unknown categories
// score 0.
type Weights map[string]float64

// DefaultWeights returns the standard category weight table.
func DefaultWeights() Weights {
	return Weights{
		"Healthcare":     10,
		"Infrastructure": 9,
		"Education":      8,
		"Water Supply":   7,
		"Sanitation":     6,
		"Public Welfare": 5,
		"Tourism":        3,
	}
}

// Scorer ranks project plans by composite priority. It holds no state
// between calls; every recompute works on the full batch it is given.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given category weight table.
func NewScorer(weights Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// Recompute derives the full ranked view from the plan batch. Duration and
// cost are min-max normalized across the batch and inverted so shorter and
// cheaper projects score higher. The sort is stable: ties keep batch order.
func (s *Scorer) Recompute(plans []model.ProjectPlan) model.PrioritizedProjects {
	if len(plans) == 0 {
		return model.PrioritizedProjects{}
	}

	durations := make([]float64, len(plans))
	costs := make([]float64, len(plans))
	for i, p := range plans {
		durations[i] = p.DurationYears
		costs[i] = p.EstimatedCost
	}

	durationNorm := minMaxNormalize(durations)
	costNorm := minMaxNormalize(costs)

	now := time.Now().UTC()
	ranked := make(model.PrioritizedProjects, len(plans))
	for i, p := range plans {
		durationScore := 1 - durationNorm[i]
		costScore := 1 - costNorm[i]
		weight := s.weights[p.Category]

		ranked[i] = model.PrioritizedProject{
			ComputedAt:    now,
			Name:          p.Name,
			Category:      p.Category,
			DurationScore: durationScore,
			CostScore:     costScore,
			Weight:        weight,
			Priority: weightCoefficient*weight +
				durationCoefficient*durationScore +
				costCoefficient*costScore,
		}
	}

	// Stable sort: equal scores keep their batch order.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}

// minMaxNormalize maps values to [0,1] across the batch. A zero-variance
// batch (min == max, including a batch of one) normalizes to exactly 0 so
// every project is deemed equally average on that dimension.
func minMaxNormalize(values []float64) []float64 {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	normalized := make([]float64, len(values))
	if max == min {
		return normalized
	}

	span := max - min
	for i, v := range values {
		normalized[i] = (v - min) / span
	}
	return normalized
}
