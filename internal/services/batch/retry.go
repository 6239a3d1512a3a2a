package batch

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// ProcessFunc is the caller-supplied single-item operation. The engine has no
// knowledge of what it does; it only classifies the errors it returns.
type ProcessFunc func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error)

// RetryPolicy wraps a single-item operation with bounded retries and
// exponential backoff. Terminal (business) failures short-circuit after one
// attempt; transient (infrastructure) failures retry until exhaustion.
type RetryPolicy struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	BackoffMultiplier float64
	logger            arbor.ILogger
}

// NewRetryPolicy creates a retry policy from engine config.
func NewRetryPolicy(config Config, logger arbor.ILogger) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts:       config.MaxAttempts,
		BaseDelay:         config.BaseDelay,
		BackoffMultiplier: config.BackoffMultiplier,
		logger:            logger,
	}
}

// Backoff returns the wait after a failed attempt (1-based):
// BaseDelay * BackoffMultiplier^(attempt-1).
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	delay := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= p.BackoffMultiplier
	}
	return time.Duration(delay)
}

// Execute runs the process operation for one item until it settles, and
// returns the item's immutable outcome. When attempts are exhausted the
// outcome reports the last error observed, not the first.
func (p *RetryPolicy) Execute(ctx context.Context, item models.WorkItem, process ProcessFunc) models.BatchOutcome {
	start := time.Now()
	records := make([]models.AttemptRecord, 0, p.MaxAttempts)

	var lastErr error
	var lastKind ErrorKind

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		attemptStart := time.Now()
		result, err := process(ctx, item)
		attemptEnd := time.Now()

		if err == nil {
			records = append(records, models.AttemptRecord{
				Attempt:   attempt,
				StartedAt: attemptStart,
				EndedAt:   attemptEnd,
				Outcome:   models.AttemptSuccess,
			})
			p.logger.Debug().
				Str("item_id", item.ID).
				Int("attempt", attempt).
				Dur("elapsed", time.Since(start)).
				Msg("Item processed")
			return models.BatchOutcome{
				ItemID:   item.ID,
				Success:  true,
				Result:   result,
				Attempts: attempt,
				Duration: time.Since(start),
				Records:  records,
			}
		}

		lastErr = err
		lastKind = Classify(err)

		if lastKind.Terminal() {
			records = append(records, models.AttemptRecord{
				Attempt:   attempt,
				StartedAt: attemptStart,
				EndedAt:   attemptEnd,
				Outcome:   models.AttemptTerminalFailure,
				ErrorKind: string(lastKind),
				Error:     err.Error(),
			})
			p.logger.Warn().
				Str("item_id", item.ID).
				Str("error_kind", string(lastKind)).
				Int("attempt", attempt).
				Err(err).
				Msg("Terminal failure, not retrying")
			break
		}

		records = append(records, models.AttemptRecord{
			Attempt:   attempt,
			StartedAt: attemptStart,
			EndedAt:   attemptEnd,
			Outcome:   models.AttemptRetryableFailure,
			ErrorKind: string(lastKind),
			Error:     err.Error(),
		})

		if attempt == p.MaxAttempts {
			p.logger.Warn().
				Str("item_id", item.ID).
				Int("max_attempts", p.MaxAttempts).
				Dur("elapsed", time.Since(start)).
				Err(err).
				Msg("Retry attempts exhausted")
			break
		}

		backoff := p.Backoff(attempt)
		p.logger.Debug().
			Str("item_id", item.ID).
			Int("attempt", attempt).
			Dur("backoff", backoff).
			Err(err).
			Msg("Retrying after backoff")

		select {
		case <-ctx.Done():
			// The run is being torn down; report what we saw last.
			return p.failureOutcome(item, start, attempt, lastKind, lastErr, records)
		case <-time.After(backoff):
		}
	}

	return p.failureOutcome(item, start, len(records), lastKind, lastErr, records)
}

func (p *RetryPolicy) failureOutcome(item models.WorkItem, start time.Time, attempts int, kind ErrorKind, err error, records []models.AttemptRecord) models.BatchOutcome {
	outcome := models.BatchOutcome{
		ItemID:   item.ID,
		Attempts: attempts,
		Duration: time.Since(start),
		Records:  records,
	}
	if err != nil {
		outcome.Error = err.Error()
		outcome.ErrorKind = string(kind)
	}
	return outcome
}
