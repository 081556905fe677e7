package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidProject = errors.New("invalid project record")
	ErrInvalidPlan    = errors.New("invalid project plan")
	ErrInvalidLedger  = errors.New("invalid fund transaction")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateProject(record *model.ProjectRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProject)
	}
	if record.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidProject)
	}
	if record.Sector == "" {
		return fmt.Errorf("%w: missing sector", ErrInvalidProject)
	}
	if record.Count < 1 {
		return fmt.Errorf("%w: count must be >= 1, got %d", ErrInvalidProject, record.Count)
	}
	return nil
}

func validatePlan(plan *model.ProjectPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: plan", ErrNilParameter)
	}
	if plan.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPlan)
	}
	if plan.Category == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidPlan)
	}
	return nil
}

func validateFundTransaction(txn *model.FundTransaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.Authority == "" {
		return fmt.Errorf("%w: missing authority", ErrInvalidLedger)
	}
	if txn.ProjectType == "" {
		return fmt.Errorf("%w: missing project type", ErrInvalidLedger)
	}
	if txn.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidLedger)
	}
	return nil
}
