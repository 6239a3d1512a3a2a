package models

import (
	"fmt"
	"time"
)

// AnalysisDepth categorizes how much work a single profile analysis performs.
// Depth determines group sizing, credit pricing, and prompt construction.
type AnalysisDepth string

const (
	// DepthLight is a surface-level analysis: snapshot stats plus a short verdict.
	DepthLight AnalysisDepth = "light"
	// DepthDeep adds engagement sampling and a full written assessment.
	DepthDeep AnalysisDepth = "deep"
	// DepthXRay is the most expensive tier: deep analysis plus outreach guidance.
	DepthXRay AnalysisDepth = "xray"
)

// Valid reports whether the depth is one of the known tiers.
func (d AnalysisDepth) Valid() bool {
	switch d {
	case DepthLight, DepthDeep, DepthXRay:
		return true
	}
	return false
}

// ParseAnalysisDepth converts a string to an AnalysisDepth.
func ParseAnalysisDepth(s string) (AnalysisDepth, error) {
	d := AnalysisDepth(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown analysis depth: %q", s)
	}
	return d, nil
}

// WorkItem is one unit of work submitted to a batch run: a single profile to
// scrape and score. Items are immutable once enqueued and owned exclusively
// by the run that created them.
type WorkItem struct {
	ID       string        `json:"id"`
	Platform string        `json:"platform"`
	Handle   string        `json:"handle"`
	Depth    AnalysisDepth `json:"depth"`
}

// ProfileSnapshot is the scraped state of a social profile at analysis time.
type ProfileSnapshot struct {
	Platform       string    `json:"platform"`
	Handle         string    `json:"handle"`
	DisplayName    string    `json:"display_name,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	PostCount      int64     `json:"post_count"`
	Verified       bool      `json:"verified"`
	Private        bool      `json:"private"`
	ExternalURL    string    `json:"external_url,omitempty"`
	RecentPosts    []PostStats `json:"recent_posts,omitempty"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// PostStats holds engagement counters for one recent post.
type PostStats struct {
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

// AnalysisResult is the payload of a successfully analyzed work item.
type AnalysisResult struct {
	ItemID    string           `json:"item_id"`
	Handle    string           `json:"handle"`
	Platform  string           `json:"platform"`
	Depth     AnalysisDepth    `json:"depth"`
	Score     int              `json:"score"`   // 0-100 lead quality score
	Verdict   string           `json:"verdict"` // e.g. "strong_lead", "weak_lead"
	Summary   string           `json:"summary"`
	Model     string           `json:"model,omitempty"` // LLM model used, empty for offline scoring
	Snapshot  *ProfileSnapshot `json:"snapshot,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}
