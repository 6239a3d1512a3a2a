// Package scoring provides pure calculation functions for profile lead
// scoring. All functions are stateless and perform no I/O.
package scoring

// EngagementComponents holds engagement calculation details
type EngagementComponents struct {
	AvgLikes       float64 `json:"avg_likes"`
	AvgComments    float64 `json:"avg_comments"`
	EngagementRate float64 `json:"engagement_rate"` // interactions per follower
	SampleSize     int     `json:"sample_size"`
}

// EngagementResult is the output of CalculateEngagement
type EngagementResult struct {
	Score      int                  `json:"score"` // 0-40
	Components EngagementComponents `json:"components"`
	Reasoning  string               `json:"reasoning"`
}

// AudienceComponents holds audience quality calculation details
type AudienceComponents struct {
	FollowerCount  int64   `json:"follower_count"`
	FollowingCount int64   `json:"following_count"`
	FollowRatio    float64 `json:"follow_ratio"`
	Verified       bool    `json:"verified"`
}

// AudienceResult is the output of CalculateAudience
type AudienceResult struct {
	Score      int                `json:"score"` // 0-35
	Components AudienceComponents `json:"components"`
	Reasoning  string             `json:"reasoning"`
}

// CompletenessComponents holds profile completeness details
type CompletenessComponents struct {
	HasBio         bool `json:"has_bio"`
	HasDisplayName bool `json:"has_display_name"`
	HasExternalURL bool `json:"has_external_url"`
	HasPosts       bool `json:"has_posts"`
	Private        bool `json:"private"`
}

// CompletenessResult is the output of CalculateCompleteness
type CompletenessResult struct {
	Score      int                    `json:"score"` // 0-25
	Components CompletenessComponents `json:"components"`
	Reasoning  string                 `json:"reasoning"`
}

// Verdict labels for the composite lead score
const (
	VerdictStrongLead   = "strong_lead"
	VerdictMediumLead   = "medium_lead"
	VerdictWeakLead     = "weak_lead"
	VerdictNotALead     = "not_a_lead"
)

// LeadScoreResult is the output of CalculateLeadScore
type LeadScoreResult struct {
	Score        int                `json:"score"` // 0-100
	Verdict      string             `json:"verdict"`
	Engagement   EngagementResult   `json:"engagement"`
	Audience     AudienceResult     `json:"audience"`
	Completeness CompletenessResult `json:"completeness"`
	Reasoning    string             `json:"reasoning"`
}
