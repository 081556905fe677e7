package model

import "time"

// FundTransaction records one disbursement against the constituency fund.
type FundTransaction struct {
	CreatedAt   time.Time `json:"created_at"`
	Authority   string    `json:"authority"` // Sanctioning authority (MLA/MP name)
	ProjectType string    `json:"project_type"`
	Amount      float64   `json:"amount"`
	ID          int64     `json:"id"`
}

// FundUsage summarizes the fund ledger.
type FundUsage struct {
	Total     float64 `json:"total"`
	Used      float64 `json:"used"`
	Remaining float64 `json:"remaining"`
}
