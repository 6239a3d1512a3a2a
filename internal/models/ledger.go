package models

import "time"

// CostLedgerEntry is the reconciled cost of one finalized batch run. Computed
// once from the run's summary; failed items never contribute to it.
type CostLedgerEntry struct {
	RunID          string  `json:"run_id"`
	AccountID      string  `json:"account_id,omitempty"`
	CreditsCharged int64   `json:"credits_charged"`
	ActualCost     float64 `json:"actual_cost"`     // real vendor + model spend, USD
	AvgCostPerItem float64 `json:"avg_cost_per_item"` // ActualCost over successful items
	// Efficiency is CreditsCharged divided by ActualCost, 0 when ActualCost is 0.
	Efficiency float64 `json:"efficiency"`
}

// CreditAccount is a billable account with a prepaid credit balance.
type CreditAccount struct {
	ID        string    `json:"id" badgerhold:"key"`
	Name      string    `json:"name,omitempty"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DebitRecord is one ledger debit applied after a completed run.
type DebitRecord struct {
	ID           string    `json:"id" badgerhold:"key"`
	AccountID    string    `json:"account_id" badgerholdIndex:"AccountID"`
	RunID        string    `json:"run_id"`
	Credits      int64     `json:"credits"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}
