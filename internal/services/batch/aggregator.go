package batch

import (
	"sync"
	"time"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// Aggregator accumulates per-item outcomes while a run is in flight and
// produces the final summary. It is the only mutable shared state in the
// engine: each item's outcome is recorded exactly once, and the summary is
// read only after every group has settled.
type Aggregator struct {
	mu       sync.Mutex
	runID    string
	items    []models.WorkItem
	outcomes map[string]models.BatchOutcome
	started  time.Time
	settled  time.Time
}

// NewAggregator creates an aggregator for the given submission order. The
// run's wall clock starts now.
func NewAggregator(runID string, items []models.WorkItem) *Aggregator {
	return &Aggregator{
		runID:    runID,
		items:    items,
		outcomes: make(map[string]models.BatchOutcome, len(items)),
		started:  time.Now(),
	}
}

// Record stores one settled outcome. Later writes for the same item are
// ignored; items settle once.
func (a *Aggregator) Record(outcome models.BatchOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.outcomes[outcome.ItemID]; exists {
		return
	}
	a.outcomes[outcome.ItemID] = outcome
	a.settled = time.Now()
}

// Completed returns how many items have settled so far.
func (a *Aggregator) Completed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.outcomes)
}

// Finalize computes the run summary. Results preserve the original submission
// order regardless of completion order; duration is wall clock from run start
// to the last settlement.
func (a *Aggregator) Finalize() *models.BatchSummary {
	a.mu.Lock()
	defer a.mu.Unlock()

	summary := &models.BatchSummary{
		RunID:   a.runID,
		Total:   len(a.items),
		Results: make([]models.ItemResult, 0, len(a.items)),
	}

	totalAttempts := 0
	for _, item := range a.items {
		outcome, ok := a.outcomes[item.ID]
		if !ok {
			// An unsettled item counts as failed; this only happens when the
			// run was cancelled between groups.
			outcome = models.BatchOutcome{ItemID: item.ID, Error: "item was not processed"}
		}
		if outcome.Success {
			summary.Successful++
		} else {
			summary.Failed++
		}
		totalAttempts += outcome.Attempts
		summary.Results = append(summary.Results, models.ItemResult{Item: item, Outcome: outcome})
	}

	if !a.settled.IsZero() {
		summary.Duration = a.settled.Sub(a.started)
	}
	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.Total)
		summary.AvgItemDuration = summary.Duration / time.Duration(summary.Total)
		summary.TotalRetries = totalAttempts - len(a.outcomes)
	}
	return summary
}
