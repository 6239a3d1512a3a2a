package batch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/models"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(testConfig(), arbor.NewLogger())
	require.NoError(t, err)
	return engine
}

func TestProcessBatchAllSucceed(t *testing.T) {
	engine := testEngine(t)
	items := makeItems(12, models.DepthDeep) // group size 5 -> groups of 5, 5, 2

	summary, err := engine.ProcessBatch(context.Background(), "run_1", items, models.DepthDeep,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			return &models.AnalysisResult{ItemID: item.ID, Score: 75}, nil
		}, nil)

	require.NoError(t, err)
	assert.Equal(t, 12, summary.Total)
	assert.Equal(t, 12, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.TotalRetries)
	require.Len(t, summary.Results, 12)
	for i, result := range summary.Results {
		assert.Equal(t, items[i].ID, result.Item.ID)
		assert.True(t, result.Outcome.Success)
	}
}

func TestProcessBatchMixedFailures(t *testing.T) {
	engine := testEngine(t)
	items := makeItems(6, models.DepthDeep)
	failing := map[string]bool{items[1].ID: true, items[4].ID: true}

	summary, err := engine.ProcessBatch(context.Background(), "run_1", items, models.DepthDeep,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			if failing[item.ID] {
				return nil, NewError(KindValidation, "invalid handle")
			}
			return &models.AnalysisResult{ItemID: item.ID}, nil
		}, nil)

	require.NoError(t, err)
	assert.Equal(t, 6, summary.Total)
	assert.Equal(t, 4, summary.Successful)
	assert.Equal(t, 2, summary.Failed)

	// Terminal failures take exactly one attempt, so the run totals six.
	totalAttempts := 0
	for _, result := range summary.Results {
		totalAttempts += result.Outcome.Attempts
	}
	assert.Equal(t, 6, totalAttempts)
}

func TestProcessBatchFailureNeverAbortsRun(t *testing.T) {
	engine := testEngine(t)
	items := makeItems(9, models.DepthXRay) // group size 3 -> three groups

	var mu sync.Mutex
	processed := make(map[string]bool)

	summary, err := engine.ProcessBatch(context.Background(), "run_1", items, models.DepthXRay,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			mu.Lock()
			processed[item.ID] = true
			mu.Unlock()
			return nil, NewError(KindNotFound, "profile does not exist")
		}, nil)

	require.NoError(t, err)
	assert.Equal(t, 9, summary.Failed)
	assert.Len(t, processed, 9, "every item is attempted even when earlier groups fail")
}

func TestProcessBatchNoCrossGroupOverlap(t *testing.T) {
	engine := testEngine(t)
	items := makeItems(9, models.DepthXRay) // group size 3
	groupOf := func(id string) int {
		for i, item := range items {
			if item.ID == id {
				return i / 3
			}
		}
		return -1
	}

	type window struct {
		start time.Time
		end   time.Time
	}
	var mu sync.Mutex
	windows := make(map[string]window)

	_, err := engine.ProcessBatch(context.Background(), "run_1", items, models.DepthXRay,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			start := time.Now()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			windows[item.ID] = window{start: start, end: time.Now()}
			mu.Unlock()
			return &models.AnalysisResult{ItemID: item.ID}, nil
		}, nil)
	require.NoError(t, err)

	groupStart := make([]time.Time, 3)
	groupEnd := make([]time.Time, 3)
	for id, w := range windows {
		g := groupOf(id)
		require.GreaterOrEqual(t, g, 0)
		if groupStart[g].IsZero() || w.start.Before(groupStart[g]) {
			groupStart[g] = w.start
		}
		if w.end.After(groupEnd[g]) {
			groupEnd[g] = w.end
		}
	}

	for g := 1; g < 3; g++ {
		assert.False(t, groupStart[g].Before(groupEnd[g-1]),
			"group %d started before group %d fully settled", g, g-1)
	}
}

func TestProcessBatchProgressCallback(t *testing.T) {
	engine := testEngine(t)
	items := makeItems(7, models.DepthDeep)

	var mu sync.Mutex
	var progress [][2]int

	_, err := engine.ProcessBatch(context.Background(), "run_1", items, models.DepthDeep,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			return &models.AnalysisResult{ItemID: item.ID}, nil
		},
		func(completed, total int) {
			mu.Lock()
			progress = append(progress, [2]int{completed, total})
			mu.Unlock()
		})
	require.NoError(t, err)

	require.Len(t, progress, 7, "progress fires once per settled item")
	for _, p := range progress {
		assert.Equal(t, 7, p[1])
		assert.GreaterOrEqual(t, p[0], 1)
		assert.LessOrEqual(t, p[0], 7)
	}
	assert.Equal(t, 7, progress[len(progress)-1][0])
}

func TestProcessBatchEmptyInput(t *testing.T) {
	engine := testEngine(t)

	summary, err := engine.ProcessBatch(context.Background(), "run_1", nil, models.DepthLight,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			t.Fatal("process must not be called for an empty run")
			return nil, nil
		}, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
}

func TestProcessBatchNilProcessIsError(t *testing.T) {
	engine := testEngine(t)
	_, err := engine.ProcessBatch(context.Background(), "run_1", makeItems(1, models.DepthLight), models.DepthLight, nil, nil)
	assert.Error(t, err)
}

func TestProcessBatchCancellationBetweenGroups(t *testing.T) {
	engine := testEngine(t)
	items := makeItems(6, models.DepthXRay) // two groups of 3

	ctx, cancel := context.WithCancel(context.Background())
	var calls sync.Map

	summary, err := engine.ProcessBatch(ctx, "run_1", items, models.DepthXRay,
		func(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
			calls.Store(item.ID, true)
			cancel() // cancel during the first group; its items still finish
			return &models.AnalysisResult{ItemID: item.ID}, nil
		}, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Successful, "first group finishes, second never starts")
	assert.Equal(t, 3, summary.Failed)

	for _, item := range items[3:] {
		_, dispatched := calls.Load(item.ID)
		assert.False(t, dispatched, "item %s from the second group must not be dispatched", item.ID)
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	config := DefaultConfig()
	config.MaxAttempts = 0
	_, err := NewEngine(config, arbor.NewLogger())
	assert.Error(t, err)
}
