// Package ledger manages prepaid credit accounts and the debits applied
// after completed batch runs.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/common"
	"github.com/hammywammy/oslira-workers/internal/interfaces"
	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/batch"
)

// Service is the ledger-update capability consumed by the run orchestrator.
type Service struct {
	storage interfaces.LedgerStorage
	logger  arbor.ILogger
}

// NewService creates a ledger service.
func NewService(storage interfaces.LedgerStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// EnsureCredits verifies an account can cover the worst-case charge of a run
// before any vendor work starts. Returns an insufficient-resource error when
// the balance is too low, so the whole submission fails fast instead of
// burning vendor spend it cannot bill.
func (s *Service) EnsureCredits(ctx context.Context, accountID string, credits int64) error {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Balance < credits {
		return batch.NewError(batch.KindInsufficientResource,
			"account %s has %d credits, run requires %d", accountID, account.Balance, credits)
	}
	return nil
}

// ApplyDebit records a reconciled ledger entry against an account and
// returns the debit record. Charges only what the entry says; the entry was
// computed from successful items exclusively.
func (s *Service) ApplyDebit(ctx context.Context, entry models.CostLedgerEntry) (*models.DebitRecord, error) {
	if entry.AccountID == "" {
		return nil, fmt.Errorf("ledger entry has no account")
	}

	account, err := s.storage.GetAccount(ctx, entry.AccountID)
	if err != nil {
		return nil, err
	}

	account.Balance -= entry.CreditsCharged
	account.UpdatedAt = time.Now()
	if err := s.storage.UpsertAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	debit := &models.DebitRecord{
		ID:           common.NewDebitID(),
		AccountID:    entry.AccountID,
		RunID:        entry.RunID,
		Credits:      entry.CreditsCharged,
		BalanceAfter: account.Balance,
		CreatedAt:    time.Now(),
	}
	if err := s.storage.SaveDebit(ctx, debit); err != nil {
		return nil, fmt.Errorf("failed to record debit: %w", err)
	}

	s.logger.Info().
		Str("account_id", entry.AccountID).
		Str("run_id", entry.RunID).
		Int64("credits", entry.CreditsCharged).
		Int64("balance_after", account.Balance).
		Msg("Ledger debit applied")

	return debit, nil
}
