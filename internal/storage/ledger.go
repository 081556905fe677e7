package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rolansy/AI-Driven-Optimization-of-Local-Body-and-MP-Fund-Management/internal/model"
)

// AddFundTransaction appends a disbursement to the fund ledger.
func (s *SQLiteStorage) AddFundTransaction(ctx context.Context, txn *model.FundTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFundTransaction(txn); err != nil {
		return err
	}

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO fund_transactions (authority, project_type, amount, created_at)
		VALUES (?, ?, ?, ?)`,
		txn.Authority, txn.ProjectType, txn.Amount, txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert fund transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read transaction id: %w", err)
	}
	txn.ID = id

	return nil
}

// GetFundTransactions returns the ledger, newest first.
func (s *SQLiteStorage) GetFundTransactions(ctx context.Context) ([]model.FundTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, authority, project_type, amount, created_at
		FROM fund_transactions
		ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.FundTransaction
	for rows.Next() {
		var t model.FundTransaction
		if err := rows.Scan(&t.ID, &t.Authority, &t.ProjectType, &t.Amount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fund transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund transactions: %w", err)
	}

	return txns, nil
}

// GetFundUsed returns the total disbursed amount.
func (s *SQLiteStorage) GetFundUsed(ctx context.Context) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var used float64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM fund_transactions`).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("failed to sum fund transactions: %w", err)
	}

	return used, nil
}
