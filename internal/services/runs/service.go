// Package runs orchestrates batch submissions end to end: build work items,
// check credits, execute the batch, reconcile the cost, and apply the debit.
package runs

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/common"
	"github.com/hammywammy/oslira-workers/internal/interfaces"
	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/batch"
	"github.com/hammywammy/oslira-workers/internal/services/ledger"
)

// Request is one batch submission.
type Request struct {
	AccountID string
	Platform  string
	Depth     models.AnalysisDepth
	Handles   []string
}

// Validate checks the submission for caller errors.
func (r Request) Validate() error {
	if r.AccountID == "" {
		return fmt.Errorf("account ID is required")
	}
	if !r.Depth.Valid() {
		return fmt.Errorf("unknown analysis depth %q", r.Depth)
	}
	if len(r.Handles) == 0 {
		return fmt.Errorf("at least one handle is required")
	}
	return nil
}

// Service executes batch submissions.
type Service struct {
	engine     *batch.Engine
	analyzer   interfaces.ProfileAnalyzer
	ledger     *ledger.Service
	runStorage interfaces.RunStorage
	costs      batch.CostTable
	logger     arbor.ILogger
}

// NewService creates a run orchestrator.
func NewService(engine *batch.Engine, analyzer interfaces.ProfileAnalyzer, ledgerService *ledger.Service, runStorage interfaces.RunStorage, costs batch.CostTable, logger arbor.ILogger) *Service {
	return &Service{
		engine:     engine,
		analyzer:   analyzer,
		ledger:     ledgerService,
		runStorage: runStorage,
		costs:      costs,
		logger:     logger,
	}
}

// Execute runs one submission to completion and returns its persisted
// record. Individual item failures are captured in the record's summary;
// Execute itself fails only for invalid submissions, insufficient credits,
// or storage errors before the run starts.
func (s *Service) Execute(ctx context.Context, request Request) (*models.BatchRecord, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	items := make([]models.WorkItem, 0, len(request.Handles))
	for _, handle := range request.Handles {
		items = append(items, models.WorkItem{
			ID:       common.NewItemID(),
			Platform: request.Platform,
			Handle:   handle,
			Depth:    request.Depth,
		})
	}

	// Fail fast when the account cannot cover the run at full success.
	estimate := batch.Estimate(items, s.costs)
	if err := s.ledger.EnsureCredits(ctx, request.AccountID, estimate); err != nil {
		return nil, err
	}

	record := &models.BatchRecord{
		ID:        common.NewRunID(),
		AccountID: request.AccountID,
		Depth:     request.Depth,
		Status:    models.RunStatusRunning,
		ItemCount: len(items),
		CreatedAt: time.Now(),
	}
	if err := s.runStorage.SaveRun(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	summary, err := s.engine.ProcessBatch(ctx, record.ID, items, request.Depth, s.analyzer.Analyze,
		func(completed, total int) {
			s.logger.Info().
				Str("run_id", record.ID).
				Int("completed", completed).
				Int("total", total).
				Msg("Batch progress")
		})
	if err != nil {
		record.Status = models.RunStatusFailed
		record.Error = err.Error()
		record.CompletedAt = time.Now()
		if saveErr := s.runStorage.SaveRun(ctx, record); saveErr != nil {
			s.logger.Error().Err(saveErr).Str("run_id", record.ID).Msg("Failed to persist failed run")
		}
		return record, err
	}

	entry := batch.Reconcile(summary, request.AccountID, s.costs)
	record.Summary = summary
	record.Ledger = &entry
	record.Status = models.RunStatusCompleted
	record.CompletedAt = time.Now()

	// A ledger failure after a completed run is logged, not propagated:
	// the analysis results are already final and must reach the caller.
	if entry.CreditsCharged > 0 {
		if _, err := s.ledger.ApplyDebit(ctx, entry); err != nil {
			s.logger.Error().
				Err(err).
				Str("run_id", record.ID).
				Str("account_id", request.AccountID).
				Int64("credits", entry.CreditsCharged).
				Msg("Ledger update failed after completed run")
		}
	}

	if err := s.runStorage.SaveRun(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("run_id", record.ID).Msg("Failed to persist completed run")
	}

	s.logger.Info().
		Str("run_id", record.ID).
		Int("successful", summary.Successful).
		Int("failed", summary.Failed).
		Int64("credits_charged", entry.CreditsCharged).
		Msg("Run finished")

	return record, nil
}
