package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// ProgressFunc is invoked after each item settles with (completed, total).
type ProgressFunc func(completed, total int)

// Engine runs bulk profile-analysis batches: items are partitioned into
// depth-sized groups, groups run strictly sequentially to respect the
// vendor's concurrency ceiling, and items within a group fan out
// concurrently through the retry policy.
type Engine struct {
	config Config
	retry  *RetryPolicy
	logger arbor.ILogger
}

// NewEngine creates a batch engine. Returns an error for malformed
// configuration; everything else is reported through the summary.
func NewEngine(config Config, logger arbor.ILogger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return &Engine{
		config: config,
		retry:  NewRetryPolicy(config, logger),
		logger: logger,
	}, nil
}

// ProcessBatch executes one run and returns its summary. Item failures are
// captured as data and never abort the batch; the returned error is reserved
// for programmer errors. Cancellation is honored between groups only:
// in-flight items always finish so completed vendor work is never orphaned
// or double-charged.
func (e *Engine) ProcessBatch(ctx context.Context, runID string, items []models.WorkItem, depth models.AnalysisDepth, process ProcessFunc, onProgress ProgressFunc) (*models.BatchSummary, error) {
	if process == nil {
		return nil, fmt.Errorf("process function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	aggregator := NewAggregator(runID, items)
	if len(items) == 0 {
		return aggregator.Finalize(), nil
	}

	groupSize := e.config.GroupSize(depth)
	groups := Partition(items, groupSize)

	e.logger.Info().
		Str("run_id", runID).
		Str("depth", string(depth)).
		Int("items", len(items)).
		Int("groups", len(groups)).
		Int("group_size", groupSize).
		Msg("Starting batch run")

	for _, group := range groups {
		if group.Index > 0 {
			select {
			case <-ctx.Done():
				e.logger.Warn().
					Str("run_id", runID).
					Int("completed", aggregator.Completed()).
					Int("total", len(items)).
					Msg("Batch run cancelled between groups")
				return aggregator.Finalize(), nil
			case <-time.After(e.config.GroupCooldown):
			}
		}

		e.executeGroup(ctx, group, process, aggregator, onProgress, len(items))
	}

	summary := aggregator.Finalize()
	e.logger.Info().
		Str("run_id", runID).
		Int("successful", summary.Successful).
		Int("failed", summary.Failed).
		Int("retries", summary.TotalRetries).
		Dur("duration", summary.Duration).
		Msg("Batch run complete")

	return summary, nil
}

// executeGroup dispatches every item of one group concurrently and joins on
// all of them. A slow or failing item never blocks its siblings, but the
// group as a whole gates the next group.
func (e *Engine) executeGroup(ctx context.Context, group models.BatchGroup, process ProcessFunc, aggregator *Aggregator, onProgress ProgressFunc, total int) {
	e.logger.Debug().
		Int("group", group.Index).
		Int("items", len(group.Items)).
		Msg("Dispatching group")

	var wg sync.WaitGroup
	for _, item := range group.Items {
		wg.Add(1)
		go func(item models.WorkItem) {
			defer wg.Done()
			outcome := e.retry.Execute(ctx, item, process)
			aggregator.Record(outcome)
			if onProgress != nil {
				onProgress(aggregator.Completed(), total)
			}
		}(item)
	}
	wg.Wait()
}
