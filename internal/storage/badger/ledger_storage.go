package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/hammywammy/oslira-workers/internal/interfaces"
	"github.com/hammywammy/oslira-workers/internal/models"
)

// LedgerStorage implements the LedgerStorage interface for Badger
type LedgerStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewLedgerStorage creates a new LedgerStorage instance
func NewLedgerStorage(db *BadgerDB, logger arbor.ILogger) interfaces.LedgerStorage {
	return &LedgerStorage{
		db:     db,
		logger: logger,
	}
}

func (s *LedgerStorage) GetAccount(ctx context.Context, id string) (*models.CreditAccount, error) {
	var account models.CreditAccount
	if err := s.db.Store().Get(id, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (s *LedgerStorage) UpsertAccount(ctx context.Context, account *models.CreditAccount) error {
	if account.ID == "" {
		return fmt.Errorf("account ID is required")
	}
	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if err := s.db.Store().Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	return nil
}

func (s *LedgerStorage) SaveDebit(ctx context.Context, debit *models.DebitRecord) error {
	if debit.ID == "" {
		return fmt.Errorf("debit ID is required")
	}
	if err := s.db.Store().Insert(debit.ID, debit); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("debit already recorded: %s", debit.ID)
		}
		return fmt.Errorf("failed to store debit: %w", err)
	}
	return nil
}

func (s *LedgerStorage) ListDebitsByAccount(ctx context.Context, accountID string) ([]*models.DebitRecord, error) {
	var debits []models.DebitRecord
	if err := s.db.Store().Find(&debits, badgerhold.Where("AccountID").Eq(accountID)); err != nil {
		return nil, fmt.Errorf("failed to list debits: %w", err)
	}

	sort.Slice(debits, func(i, j int) bool {
		return debits[i].CreatedAt.Before(debits[j].CreatedAt)
	})

	result := make([]*models.DebitRecord, len(debits))
	for i := range debits {
		result[i] = &debits[i]
	}
	return result, nil
}
