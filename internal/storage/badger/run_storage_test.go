package badger

import (
	"context"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/hammywammy/oslira-workers/internal/models"
)

func openTestDB(t *testing.T) *BadgerDB {
	t.Helper()
	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store}
}

func TestRunLifecyclePersistence(t *testing.T) {
	db := openTestDB(t)
	storage := NewRunStorage(db, arbor.NewLogger())
	ctx := context.Background()

	record := &models.BatchRecord{
		ID:        "run_test_1",
		AccountID: "acct_1",
		Depth:     models.DepthDeep,
		Status:    models.RunStatusRunning,
		ItemCount: 12,
		CreatedAt: time.Now(),
	}
	if err := storage.SaveRun(ctx, record); err != nil {
		t.Fatalf("Failed to save run: %v", err)
	}

	loaded, err := storage.GetRun(ctx, "run_test_1")
	if err != nil {
		t.Fatalf("Failed to load run: %v", err)
	}
	if loaded.Status != models.RunStatusRunning {
		t.Errorf("Expected status running, got %s", loaded.Status)
	}
	if loaded.ItemCount != 12 {
		t.Errorf("Expected 12 items, got %d", loaded.ItemCount)
	}

	// Finish the run and overwrite the record.
	record.Status = models.RunStatusCompleted
	record.Summary = &models.BatchSummary{
		RunID:      record.ID,
		Total:      12,
		Successful: 10,
		Failed:     2,
	}
	record.CompletedAt = time.Now()
	if err := storage.SaveRun(ctx, record); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}

	loaded, err = storage.GetRun(ctx, "run_test_1")
	if err != nil {
		t.Fatalf("Failed to reload run: %v", err)
	}
	if loaded.Status != models.RunStatusCompleted {
		t.Errorf("Expected status completed, got %s", loaded.Status)
	}
	if loaded.Summary == nil || loaded.Summary.Successful != 10 {
		t.Errorf("Expected summary with 10 successes, got %+v", loaded.Summary)
	}
}

func TestGetRunNotFound(t *testing.T) {
	db := openTestDB(t)
	storage := NewRunStorage(db, arbor.NewLogger())

	if _, err := storage.GetRun(context.Background(), "run_missing"); err == nil {
		t.Fatal("Expected error for missing run")
	}
}

func TestSaveRunRequiresID(t *testing.T) {
	db := openTestDB(t)
	storage := NewRunStorage(db, arbor.NewLogger())

	if err := storage.SaveRun(context.Background(), &models.BatchRecord{}); err == nil {
		t.Fatal("Expected error for run without ID")
	}
}

func TestListRunsByAccountOrdersNewestFirst(t *testing.T) {
	db := openTestDB(t)
	storage := NewRunStorage(db, arbor.NewLogger())
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"run_a", "run_b", "run_c"} {
		record := &models.BatchRecord{
			ID:        id,
			AccountID: "acct_1",
			Status:    models.RunStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := storage.SaveRun(ctx, record); err != nil {
			t.Fatalf("Failed to save %s: %v", id, err)
		}
	}
	other := &models.BatchRecord{ID: "run_other", AccountID: "acct_2", CreatedAt: base}
	if err := storage.SaveRun(ctx, other); err != nil {
		t.Fatalf("Failed to save other-account run: %v", err)
	}

	records, err := storage.ListRunsByAccount(ctx, "acct_1")
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(records))
	}
	if records[0].ID != "run_c" || records[2].ID != "run_a" {
		t.Errorf("Expected newest-first order, got %s, %s, %s",
			records[0].ID, records[1].ID, records[2].ID)
	}
}
