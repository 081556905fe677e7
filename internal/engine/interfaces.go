package engine

import (
	"context"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// Extractor recovers structured project fields from free document text.
// Extraction never fails the caller: any parse or transport problem yields
// an empty result.
type Extractor interface {
	Extract(ctx context.Context, documentText string) model.ExtractedPlan
}

// Classifier maps free text to a (matched phrase, sector) pair. A false ok
// means the submission names no sector-worthy project.
type Classifier interface {
	Classify(text string) (phrase, sector string, ok bool)
}

// Deduplicator folds an observation into the existing cluster state.
type Deduplicator interface {
	Upsert(ctx context.Context, name, sector string, loc model.GeoPoint) (*model.ProjectRecord, error)
}
