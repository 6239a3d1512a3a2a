package interfaces

import (
	"context"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// RunStorage persists batch run records. A record is written when a run is
// accepted and updated once after it settles; there is no mid-run state.
type RunStorage interface {
	SaveRun(ctx context.Context, record *models.BatchRecord) error
	GetRun(ctx context.Context, id string) (*models.BatchRecord, error)
	ListRunsByAccount(ctx context.Context, accountID string) ([]*models.BatchRecord, error)
}

// LedgerStorage persists credit accounts and their debit history.
type LedgerStorage interface {
	GetAccount(ctx context.Context, id string) (*models.CreditAccount, error)
	UpsertAccount(ctx context.Context, account *models.CreditAccount) error
	SaveDebit(ctx context.Context, debit *models.DebitRecord) error
	ListDebitsByAccount(ctx context.Context, accountID string) ([]*models.DebitRecord, error)
}
