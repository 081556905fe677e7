package engine

import (
	"context"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// MockExtractor returns canned extraction results for tests.
type MockExtractor struct {
	// Result is returned for every Extract call.
	Result model.ExtractedPlan
	// Calls counts Extract invocations.
	Calls int
}

// Extract implements Extractor.
func (m *MockExtractor) Extract(_ context.Context, _ string) model.ExtractedPlan {
	m.Calls++
	return m.Result
}
