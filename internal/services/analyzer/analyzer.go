// Package analyzer implements the per-item processing operation consumed by
// the batch engine: scrape one profile, score it, and (for deeper tiers)
// have the configured model write an assessment.
package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/batch"
	"github.com/hammywammy/oslira-workers/internal/services/llm"
	"github.com/hammywammy/oslira-workers/internal/services/scoring"
)

// ProfileFetcher retrieves one profile snapshot. Satisfied by scraper.Client.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, platform, handle string) (*models.ProfileSnapshot, error)
}

// Service analyzes single profiles. It has no batching knowledge; the batch
// engine calls Analyze once per attempt.
type Service struct {
	fetcher  ProfileFetcher
	provider llm.Provider
	logger   arbor.ILogger
}

// NewService creates an analyzer.
func NewService(fetcher ProfileFetcher, provider llm.Provider, logger arbor.ILogger) *Service {
	return &Service{
		fetcher:  fetcher,
		provider: provider,
		logger:   logger,
	}
}

// Analyze fetches, scores and summarizes one profile. Returned errors carry
// batch error kinds attached at the vendor and model boundaries.
func (s *Service) Analyze(ctx context.Context, item models.WorkItem) (*models.AnalysisResult, error) {
	if !item.Depth.Valid() {
		return nil, batch.NewError(batch.KindValidation, "unknown analysis depth %q", item.Depth)
	}

	snapshot, err := s.fetcher.FetchProfile(ctx, item.Platform, item.Handle)
	if err != nil {
		return nil, err
	}

	score := scoring.CalculateLeadScore(snapshot)

	result := &models.AnalysisResult{
		ItemID:    item.ID,
		Handle:    item.Handle,
		Platform:  item.Platform,
		Depth:     item.Depth,
		Score:     score.Score,
		Verdict:   score.Verdict,
		Summary:   score.Reasoning,
		Snapshot:  snapshot,
		CreatedAt: time.Now(),
	}

	// Light analyses stop at heuristics; deeper tiers ask the model for a
	// written assessment.
	if item.Depth == models.DepthLight || s.provider == nil {
		return result, nil
	}

	response, err := s.provider.GenerateContent(ctx, &llm.ContentRequest{
		System: systemPrompt,
		Prompt: buildPrompt(item, snapshot, score),
	})
	if err != nil {
		return nil, err
	}

	result.Summary = strings.TrimSpace(response.Text)
	result.Model = response.Model

	s.logger.Debug().
		Str("item_id", item.ID).
		Str("handle", item.Handle).
		Int("score", result.Score).
		Str("verdict", result.Verdict).
		Str("model", result.Model).
		Msg("Profile analyzed")

	return result, nil
}

const systemPrompt = "You are a B2B lead qualification analyst. Assess social " +
	"profiles as sales leads. Be concise and factual; do not invent data."

func buildPrompt(item models.WorkItem, snapshot *models.ProfileSnapshot, score scoring.LeadScoreResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Assess @%s on %s as a lead.\n", snapshot.Handle, snapshot.Platform)
	fmt.Fprintf(&b, "Followers: %d, Following: %d, Posts: %d, Verified: %t, Private: %t\n",
		snapshot.FollowerCount, snapshot.FollowingCount, snapshot.PostCount,
		snapshot.Verified, snapshot.Private)
	if snapshot.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", snapshot.Bio)
	}
	fmt.Fprintf(&b, "Heuristic score: %d/100 (%s). %s\n", score.Score, score.Verdict, score.Reasoning)

	switch item.Depth {
	case models.DepthDeep:
		b.WriteString("Write a short assessment (3-4 sentences) of lead quality and fit.")
	case models.DepthXRay:
		b.WriteString("Write a detailed assessment of lead quality, audience authenticity, " +
			"and a suggested outreach angle.")
	}
	return b.String()
}
