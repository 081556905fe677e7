// Package engine orchestrates the classification, deduplication, and
// priority-scoring pipelines over the record store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/anomaly"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/common"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/scoring"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/service"
	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/storage"
)

// suspiciousOvershootFraction rejects disbursements exceeding the market
// rate by more than this fraction.
const suspiciousOvershootFraction = 0.20

// Config holds engine-level policy knobs.
type Config struct {
	// TotalFund is the constituency fund ceiling for the ledger.
	TotalFund float64
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{TotalFund: 50_000_000}
}

// Engine wires the matcher, deduplicator, scorer, and fund ledger together.
// It holds no state of its own between calls; all durable state lives in
// storage.
type Engine struct {
	storage    service.Storage
	locker     service.KeyLocker
	classifier Classifier
	dedup      Deduplicator
	scorer     *scoring.Scorer
	detector   *anomaly.Detector
	extractor  Extractor
	cfg        Config
}

// New creates an engine with the default configuration.
func New(store service.Storage, locker service.KeyLocker, classifier Classifier, dedup Deduplicator, scorer *scoring.Scorer, detector *anomaly.Detector, extractor Extractor) *Engine {
	return NewWithConfig(store, locker, classifier, dedup, scorer, detector, extractor, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(store service.Storage, locker service.KeyLocker, classifier Classifier, dedup Deduplicator, scorer *scoring.Scorer, detector *anomaly.Detector, extractor Extractor, cfg Config) *Engine {
	if cfg.TotalFund <= 0 {
		cfg.TotalFund = DefaultConfig().TotalFund
	}
	return &Engine{
		storage:    store,
		locker:     locker,
		classifier: classifier,
		dedup:      dedup,
		scorer:     scorer,
		detector:   detector,
		extractor:  extractor,
		cfg:        cfg,
	}
}

// SubmissionResult reports how a citizen submission was recorded.
type SubmissionResult struct {
	Record *model.ProjectRecord
	Phrase string
	Sector string
	Merged bool // True when the observation joined an existing cluster
}

// ProcessSubmission classifies a citizen request and folds it into the
// cluster state. The per-(name, sector) key lock is held across the
// deduplicator's read-compute-write sequence so concurrent submissions of
// the same need cannot race into two records.
func (e *Engine) ProcessSubmission(ctx context.Context, obs model.Observation) (*SubmissionResult, error) {
	if strings.TrimSpace(obs.Text) == "" {
		return nil, common.ErrEmptyText
	}

	phrase, sector, ok := e.classifier.Classify(obs.Text)
	if !ok {
		return nil, common.ErrNoProjectDetected
	}

	if !obs.HasLocation() {
		return nil, common.ErrMissingCoordinates
	}

	unlock := e.locker.Lock(storage.LockKey(phrase, sector))
	defer unlock()

	record, err := e.dedup.Upsert(ctx, phrase, sector, *obs.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert observation: %w", err)
	}

	slog.Info("Processed submission",
		"submission_id", obs.ID,
		"phrase", phrase,
		"sector", sector,
		"record_id", record.ID,
		"count", record.Count)

	return &SubmissionResult{
		Record: record,
		Phrase: phrase,
		Sector: sector,
		Merged: record.Count > 1,
	}, nil
}

// IngestDocument extracts a project plan from report text, stores it, and
// recomputes the ranking. Extraction failures surface as a rejected request,
// never as a system failure.
func (e *Engine) IngestDocument(ctx context.Context, documentText string) (*model.ProjectPlan, model.PrioritizedProjects, error) {
	if strings.TrimSpace(documentText) == "" {
		return nil, nil, common.ErrEmptyText
	}

	fields := e.extractor.Extract(ctx, documentText)
	if fields.Empty() {
		return nil, nil, common.ErrNoProjectDetected
	}

	plan := &model.ProjectPlan{
		Name:          fields.ProjectName,
		Category:      fields.Category,
		EstimatedCost: fields.EstimatedCost,
		DurationYears: fields.Duration(),
	}
	plan, err := e.storage.AddPlan(ctx, plan)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to store plan: %w", err)
	}

	ranking, err := e.RecomputeRanking(ctx)
	if err != nil {
		return nil, nil, err
	}

	return plan, ranking, nil
}

// RecomputeRanking derives the ranked view from the full plan batch and
// atomically replaces the stored view.
func (e *Engine) RecomputeRanking(ctx context.Context) (model.PrioritizedProjects, error) {
	plans, err := e.storage.GetPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans: %w", err)
	}

	ranking := e.scorer.Recompute(plans)

	if err := e.storage.ReplaceRanking(ctx, ranking); err != nil {
		return nil, fmt.Errorf("failed to replace ranking: %w", err)
	}

	slog.Info("Recomputed priority ranking", "projects", len(ranking))
	return ranking, nil
}

// SpendResult reports a recorded disbursement together with its anomaly
// check.
type SpendResult struct {
	Transaction *model.FundTransaction
	Check       anomaly.Result
	Usage       model.FundUsage
}

// RecordSpend validates a disbursement against the market rate and the
// remaining fund, then appends it to the ledger.
func (e *Engine) RecordSpend(ctx context.Context, authority, projectType string, amount float64) (*SpendResult, error) {
	check := e.detector.Detect(projectType, amount)

	if rate := e.detector.Rate(projectType); rate > 0 {
		threshold := rate * (1 + suspiciousOvershootFraction)
		if amount > threshold {
			overshoot := (amount - rate) / rate * 100
			return nil, common.NewUserError(
				fmt.Sprintf("amount exceeds market rate by %.2f%%", overshoot),
				common.ErrSuspiciousAmount)
		}
	}

	used, err := e.storage.GetFundUsed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read fund usage: %w", err)
	}
	if used+amount > e.cfg.TotalFund {
		return nil, common.ErrInsufficientFunds
	}

	txn := &model.FundTransaction{
		Authority:   authority,
		ProjectType: projectType,
		Amount:      amount,
	}
	if err := e.storage.AddFundTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if check.Suspicious {
		slog.Warn("Recorded anomalous disbursement",
			"project_type", projectType,
			"amount", amount,
			"z_score", check.ZScore)
	}

	return &SpendResult{
		Transaction: txn,
		Check:       check,
		Usage: model.FundUsage{
			Total:     e.cfg.TotalFund,
			Used:      used + amount,
			Remaining: e.cfg.TotalFund - used - amount,
		},
	}, nil
}

// FundUsage returns the current ledger balance.
func (e *Engine) FundUsage(ctx context.Context) (model.FundUsage, error) {
	used, err := e.storage.GetFundUsed(ctx)
	if err != nil {
		return model.FundUsage{}, fmt.Errorf("failed to read fund usage: %w", err)
	}
	return model.FundUsage{
		Total:     e.cfg.TotalFund,
		Used:      used,
		Remaining: e.cfg.TotalFund - used,
	}, nil
}

// Reset clears all persisted state.
func (e *Engine) Reset(ctx context.Context) error {
	if err := e.storage.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	slog.Info("Cleared all project state")
	return nil
}
