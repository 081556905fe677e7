// Package extract recovers structured project plan fields from uploaded
// report text using the Anthropic API.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
)

const systemPrompt = "You extract project plan details from government planning documents. Respond with strict JSON only, using exactly these keys: Project_Name, Category, Estimated_Cost, Start_Year, End_Year, Duration. Use null for fields the document does not state."

const maxTokens = 1024

// Messager is the slice of the Anthropic client the extractor needs.
type Messager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicExtractor pulls plan fields out of free-form document text.
// Extraction never fails the caller: transport errors, refusals, and
// malformed responses all yield an empty result.
type AnthropicExtractor struct {
	messages Messager
	model    anthropic.Model
	retry    service.RetryOptions
}

// NewAnthropicExtractor creates an extractor backed by the Anthropic API.
func NewAnthropicExtractor(apiKey string) (*AnthropicExtractor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicExtractor{
		messages: &client.Messages,
		model:    anthropic.ModelClaudeSonnet4_20250514,
	}, nil
}

// Extract sends the document to the model and parses the structured reply.
func (e *AnthropicExtractor) Extract(ctx context.Context, documentText string) model.ExtractedPlan {
	var resp *anthropic.Message
	err := common.WithRetry(ctx, func() error {
		var callErr error
		resp, callErr = e.messages.New(ctx, anthropic.MessageNewParams{
			Model:       e.model,
			MaxTokens:   maxTokens,
			System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
			Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(documentText))},
			Temperature: anthropic.Float(0),
		})
		return callErr
	}, e.retry)
	if err != nil {
		slog.Warn("Document extraction request failed", "error", err)
		return model.ExtractedPlan{}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return ParsePlan(sb.String())
}

// ParsePlan decodes a model reply into plan fields. Anything unparseable
// comes back empty.
func ParsePlan(raw string) model.ExtractedPlan {
	clean := stripCodeFences(raw)
	if clean == "" {
		return model.ExtractedPlan{}
	}

	var plan model.ExtractedPlan
	if err := json.Unmarshal([]byte(clean), &plan); err != nil {
		slog.Warn("Document extraction returned malformed JSON", "error", err)
		return model.ExtractedPlan{}
	}

	plan.ProjectName = strings.TrimSpace(plan.ProjectName)
	plan.Category = strings.TrimSpace(plan.Category)
	return plan
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
