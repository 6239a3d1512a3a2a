package interfaces

import (
	"context"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// ProfileAnalyzer processes one work item end to end: fetch the profile,
// score it, and return the analysis payload. Implementations classify their
// failures with batch error kinds so the engine can decide retryability.
type ProfileAnalyzer interface {
	Analyze(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error)
}
