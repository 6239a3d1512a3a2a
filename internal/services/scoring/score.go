package scoring

import (
	"fmt"

	"github.com/hammywammy/oslira-workers/internal/models"
)

// CalculateEngagement scores engagement quality from recent post samples.
// Returns 0-40. A profile with no sampled posts scores 0 with reasoning.
func CalculateEngagement(snapshot *models.ProfileSnapshot) EngagementResult {
	result := EngagementResult{}
	if len(snapshot.RecentPosts) == 0 || snapshot.FollowerCount <= 0 {
		result.Reasoning = "no engagement samples available"
		return result
	}

	var likes, comments int64
	for _, post := range snapshot.RecentPosts {
		likes += post.Likes
		comments += post.Comments
	}
	n := float64(len(snapshot.RecentPosts))
	avgLikes := float64(likes) / n
	avgComments := float64(comments) / n
	rate := (avgLikes + avgComments) / float64(snapshot.FollowerCount)

	result.Components = EngagementComponents{
		AvgLikes:       avgLikes,
		AvgComments:    avgComments,
		EngagementRate: rate,
		SampleSize:     len(snapshot.RecentPosts),
	}

	// Engagement rate bands: >=6% exceptional, >=3% strong, >=1% typical.
	switch {
	case rate >= 0.06:
		result.Score = 40
	case rate >= 0.03:
		result.Score = 30
	case rate >= 0.01:
		result.Score = 20
	case rate > 0:
		result.Score = 10
	}
	result.Reasoning = fmt.Sprintf("engagement rate %.2f%% over %d posts", rate*100, len(snapshot.RecentPosts))
	return result
}

// CalculateAudience scores audience size and shape. Returns 0-35.
func CalculateAudience(snapshot *models.ProfileSnapshot) AudienceResult {
	result := AudienceResult{
		Components: AudienceComponents{
			FollowerCount:  snapshot.FollowerCount,
			FollowingCount: snapshot.FollowingCount,
			Verified:       snapshot.Verified,
		},
	}

	switch {
	case snapshot.FollowerCount >= 100_000:
		result.Score = 20
	case snapshot.FollowerCount >= 10_000:
		result.Score = 15
	case snapshot.FollowerCount >= 1_000:
		result.Score = 10
	case snapshot.FollowerCount > 0:
		result.Score = 5
	}

	if snapshot.FollowingCount > 0 {
		ratio := float64(snapshot.FollowerCount) / float64(snapshot.FollowingCount)
		result.Components.FollowRatio = ratio
		// A follower/following ratio above 2 suggests an organic audience
		// rather than follow-back farming.
		if ratio >= 2 {
			result.Score += 10
		} else if ratio >= 1 {
			result.Score += 5
		}
	}

	if snapshot.Verified {
		result.Score += 5
	}

	result.Reasoning = fmt.Sprintf("%d followers, ratio %.1f, verified=%t",
		snapshot.FollowerCount, result.Components.FollowRatio, snapshot.Verified)
	return result
}

// CalculateCompleteness scores how much of the profile is filled in.
// Returns 0-25. Private profiles are capped: their content is unverifiable.
func CalculateCompleteness(snapshot *models.ProfileSnapshot) CompletenessResult {
	result := CompletenessResult{
		Components: CompletenessComponents{
			HasBio:         snapshot.Bio != "",
			HasDisplayName: snapshot.DisplayName != "",
			HasExternalURL: snapshot.ExternalURL != "",
			HasPosts:       snapshot.PostCount > 0,
			Private:        snapshot.Private,
		},
	}

	if result.Components.HasBio {
		result.Score += 8
	}
	if result.Components.HasDisplayName {
		result.Score += 4
	}
	if result.Components.HasExternalURL {
		result.Score += 8
	}
	if result.Components.HasPosts {
		result.Score += 5
	}

	if snapshot.Private && result.Score > 10 {
		result.Score = 10
	}

	result.Reasoning = fmt.Sprintf("bio=%t url=%t posts=%t private=%t",
		result.Components.HasBio, result.Components.HasExternalURL,
		result.Components.HasPosts, snapshot.Private)
	return result
}

// CalculateLeadScore combines the component scores into a 0-100 lead score
// with a verdict label. Pure function of the snapshot.
func CalculateLeadScore(snapshot *models.ProfileSnapshot) LeadScoreResult {
	engagement := CalculateEngagement(snapshot)
	audience := CalculateAudience(snapshot)
	completeness := CalculateCompleteness(snapshot)

	total := engagement.Score + audience.Score + completeness.Score
	if total > 100 {
		total = 100
	}

	verdict := VerdictNotALead
	switch {
	case total >= 75:
		verdict = VerdictStrongLead
	case total >= 50:
		verdict = VerdictMediumLead
	case total >= 25:
		verdict = VerdictWeakLead
	}

	return LeadScoreResult{
		Score:        total,
		Verdict:      verdict,
		Engagement:   engagement,
		Audience:     audience,
		Completeness: completeness,
		Reasoning: fmt.Sprintf("engagement %d/40, audience %d/35, completeness %d/25",
			engagement.Score, audience.Score, completeness.Score),
	}
}
