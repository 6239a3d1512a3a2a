package models

import "time"

// BatchGroup is an ordered, non-empty slice of work items processed
// concurrently as one unit. Groups are created once by the partitioner and
// never mutated afterwards.
type BatchGroup struct {
	Index int
	Items []WorkItem
}

// AttemptOutcome is the result classification of a single attempt.
type AttemptOutcome string

const (
	AttemptSuccess          AttemptOutcome = "success"
	AttemptRetryableFailure AttemptOutcome = "retryable_failure"
	AttemptTerminalFailure  AttemptOutcome = "terminal_failure"
)

// AttemptRecord captures one attempt at processing a work item. Attempt
// numbers are contiguous starting at 1; the last record's outcome determines
// the item's final state.
type AttemptRecord struct {
	Attempt   int            `json:"attempt"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	Outcome   AttemptOutcome `json:"outcome"`
	ErrorKind string         `json:"error_kind,omitempty"`
	Error     string         `json:"error,omitempty"`
}

// BatchOutcome is the final, immutable result for one work item.
type BatchOutcome struct {
	ItemID    string          `json:"item_id"`
	Success   bool            `json:"success"`
	Result    *AnalysisResult `json:"result,omitempty"`
	ErrorKind string          `json:"error_kind,omitempty"`
	Error     string          `json:"error,omitempty"` // last error observed when Success is false
	Attempts  int             `json:"attempts"`
	Duration  time.Duration   `json:"duration"`
	Records   []AttemptRecord `json:"records,omitempty"`
}

// ItemResult pairs a work item with its settled outcome.
type ItemResult struct {
	Item    WorkItem     `json:"item"`
	Outcome BatchOutcome `json:"outcome"`
}

// BatchSummary aggregates every item of a run. Results preserve the original
// submission order regardless of completion order.
type BatchSummary struct {
	RunID      string        `json:"run_id"`
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
	// SuccessRate is Successful/Total, 0 for an empty run.
	SuccessRate float64 `json:"success_rate"`
	// AvgItemDuration is Duration/Total, 0 for an empty run.
	AvgItemDuration time.Duration `json:"avg_item_duration"`
	// TotalRetries is the sum of attempts across items minus Total.
	TotalRetries int          `json:"total_retries"`
	Results      []ItemResult `json:"results"`
}

// RunStatus is the lifecycle state of a persisted batch run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// BatchRecord is the persisted record of one batch run: who submitted it,
// what it processed, and what it cost. Written before the run starts and
// updated once after it finishes; there is no mid-run state persistence.
type BatchRecord struct {
	ID          string           `json:"id" badgerhold:"key"`
	AccountID   string           `json:"account_id" badgerholdIndex:"AccountID"`
	Depth       AnalysisDepth    `json:"depth"`
	Status      RunStatus        `json:"status"`
	ItemCount   int              `json:"item_count"`
	Summary     *BatchSummary    `json:"summary,omitempty"`
	Ledger      *CostLedgerEntry `json:"ledger,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt time.Time        `json:"completed_at,omitempty"`
}
