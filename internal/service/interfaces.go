// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// ProjectFilter defines filtering options for project record queries.
// Empty fields match everything.
type ProjectFilter struct {
	Name   string
	Sector string
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Project record operations
	GetProjects(ctx context.Context, filter ProjectFilter) ([]model.ProjectRecord, error)
	GetProjectByID(ctx context.Context, id string) (*model.ProjectRecord, error)
	UpsertProject(ctx context.Context, record *model.ProjectRecord) (*model.ProjectRecord, error)
	DeleteProject(ctx context.Context, id string) error

	// Project plan operations
	GetPlans(ctx context.Context) ([]model.ProjectPlan, error)
	AddPlan(ctx context.Context, plan *model.ProjectPlan) (*model.ProjectPlan, error)

	// Derived ranking view. ReplaceRanking swaps the whole view in one
	// transaction; readers never observe a partial mixture.
	ReplaceRanking(ctx context.Context, ranking model.PrioritizedProjects) error
	GetRanking(ctx context.Context) (model.PrioritizedProjects, error)

	// Fund ledger operations
	AddFundTransaction(ctx context.Context, txn *model.FundTransaction) error
	GetFundTransactions(ctx context.Context) ([]model.FundTransaction, error)
	GetFundUsed(ctx context.Context) (float64, error)

	// Database management
	Migrate(ctx context.Context) error
	Reset(ctx context.Context) error
	Close() error
}

// KeyLocker serializes read-modify-write sequences against the store.
// The deduplicator's fetch-merge-upsert runs under a per-(name,sector) key.
type KeyLocker interface {
	// Lock acquires the named lock and returns its release func.
	Lock(key string) (unlock func())
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
