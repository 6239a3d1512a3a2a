package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique batch run ID with the "run_" prefix.
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewItemID generates a unique work item ID with the "item_" prefix.
func NewItemID() string {
	return "item_" + uuid.New().String()
}

// NewDebitID generates a unique ledger debit ID with the "debit_" prefix.
func NewDebitID() string {
	return "debit_" + uuid.New().String()
}
