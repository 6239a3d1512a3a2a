package batch

import (
	"github.com/hammywammy/oslira-workers/internal/models"
)

// ItemCost is what one successful analysis charges and what it actually
// costs us in vendor and model spend.
type ItemCost struct {
	Credits    int64
	ActualCost float64
}

// CostTable maps analysis depth to per-item pricing.
type CostTable map[models.AnalysisDepth]ItemCost

// DefaultCostTable returns the production pricing tiers.
func DefaultCostTable() CostTable {
	return CostTable{
		models.DepthLight: {Credits: 1, ActualCost: 0.03},
		models.DepthDeep:  {Credits: 2, ActualCost: 0.09},
		models.DepthXRay:  {Credits: 3, ActualCost: 0.18},
	}
}

// Reconcile computes the exact cost of a finalized run. Only successful items
// are charged; failed items owe nothing. Pure function of the summary and the
// cost table: calling it twice yields identical totals. The caller applies
// the resulting entry to the ledger and treats a ledger failure as non-fatal
// to the already-completed run.
func Reconcile(summary *models.BatchSummary, accountID string, costs CostTable) models.CostLedgerEntry {
	entry := models.CostLedgerEntry{
		RunID:     summary.RunID,
		AccountID: accountID,
	}

	successes := 0
	for _, result := range summary.Results {
		if !result.Outcome.Success {
			continue
		}
		cost := costs[result.Item.Depth]
		entry.CreditsCharged += cost.Credits
		entry.ActualCost += cost.ActualCost
		successes++
	}

	if successes > 0 {
		entry.AvgCostPerItem = entry.ActualCost / float64(successes)
	}
	if entry.ActualCost > 0 {
		entry.Efficiency = float64(entry.CreditsCharged) / entry.ActualCost
	}
	return entry
}

// Estimate returns the credits a run would charge if every item succeeded.
// Used for the pre-flight balance check before any vendor work starts.
func Estimate(items []models.WorkItem, costs CostTable) int64 {
	var credits int64
	for _, item := range items {
		credits += costs[item.Depth].Credits
	}
	return credits
}
