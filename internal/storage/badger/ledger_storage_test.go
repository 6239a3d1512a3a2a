package badger

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/models"
)

func TestAccountUpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	storage := NewLedgerStorage(db, arbor.NewLogger())
	ctx := context.Background()

	account := &models.CreditAccount{ID: "acct_1", Balance: 100}
	if err := storage.UpsertAccount(ctx, account); err != nil {
		t.Fatalf("Failed to create account: %v", err)
	}
	if account.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set on first upsert")
	}

	account.Balance = 95
	if err := storage.UpsertAccount(ctx, account); err != nil {
		t.Fatalf("Failed to update account: %v", err)
	}

	loaded, err := storage.GetAccount(ctx, "acct_1")
	if err != nil {
		t.Fatalf("Failed to load account: %v", err)
	}
	if loaded.Balance != 95 {
		t.Errorf("Expected balance 95, got %d", loaded.Balance)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	db := openTestDB(t)
	storage := NewLedgerStorage(db, arbor.NewLogger())

	if _, err := storage.GetAccount(context.Background(), "acct_missing"); err == nil {
		t.Fatal("Expected error for missing account")
	}
}

func TestSaveDebitRejectsDuplicateIDs(t *testing.T) {
	db := openTestDB(t)
	storage := NewLedgerStorage(db, arbor.NewLogger())
	ctx := context.Background()

	debit := &models.DebitRecord{
		ID:        "debit_1",
		AccountID: "acct_1",
		RunID:     "run_1",
		Credits:   5,
		CreatedAt: time.Now(),
	}
	if err := storage.SaveDebit(ctx, debit); err != nil {
		t.Fatalf("Failed to save debit: %v", err)
	}
	if err := storage.SaveDebit(ctx, debit); err == nil {
		t.Fatal("Expected duplicate debit to fail")
	}
}

func TestListDebitsByAccountOrdersOldestFirst(t *testing.T) {
	db := openTestDB(t)
	storage := NewLedgerStorage(db, arbor.NewLogger())
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"debit_c", "debit_a", "debit_b"} {
		debit := &models.DebitRecord{
			ID:        id,
			AccountID: "acct_1",
			RunID:     "run_1",
			Credits:   int64(i + 1),
			CreatedAt: base.Add(time.Duration(2-i) * time.Minute),
		}
		if err := storage.SaveDebit(ctx, debit); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}

	debits, err := storage.ListDebitsByAccount(ctx, "acct_1")
	if err != nil {
		t.Fatalf("Failed to list debits: %v", err)
	}
	if len(debits) != 3 {
		t.Fatalf("Expected 3 debits, got %d", len(debits))
	}
	if debits[0].ID != "debit_b" || debits[2].ID != "debit_c" {
		t.Errorf("Expected oldest-first order, got %s, %s, %s",
			debits[0].ID, debits[1].ID, debits[2].ID)
	}
}
