package extract

import (
	"context"
	"log/slog"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// Disabled is the extractor used when no API key is configured. Every
// document comes back empty, so ingestion reports a rejected request.
type Disabled struct{}

// Extract implements the extractor contract without calling out.
func (Disabled) Extract(_ context.Context, _ string) model.ExtractedPlan {
	slog.Warn("Document extraction is disabled; set an Anthropic API key to enable it")
	return model.ExtractedPlan{}
}
