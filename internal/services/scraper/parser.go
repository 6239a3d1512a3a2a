package scraper

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hammywammy/oslira-workers/internal/models"
	"github.com/hammywammy/oslira-workers/internal/services/batch"
)

// statsPattern matches the "X Followers, Y Following, Z Posts" summary that
// profile pages expose in their og:description meta tag.
var statsPattern = regexp.MustCompile(`(?i)([\d.,]+[KMB]?)\s+Followers?,\s+([\d.,]+[KMB]?)\s+Following,\s+([\d.,]+[KMB]?)\s+Posts?`)

// ParseProfileHTML extracts a profile snapshot from a rendered profile page.
func ParseProfileHTML(body []byte, platform, handle string) (*models.ProfileSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, batch.WrapError(batch.KindValidation, err, "profile page is not parseable HTML")
	}

	snapshot := &models.ProfileSnapshot{
		Platform:  platform,
		Handle:    handle,
		FetchedAt: time.Now(),
	}

	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		snapshot.DisplayName = cleanTitle(title, handle)
	}

	description, _ := doc.Find(`meta[property="og:description"]`).Attr("content")
	if matches := statsPattern.FindStringSubmatch(description); matches != nil {
		snapshot.FollowerCount = ParseCompactCount(matches[1])
		snapshot.FollowingCount = ParseCompactCount(matches[2])
		snapshot.PostCount = ParseCompactCount(matches[3])
	}

	doc.Find(`[data-profile-bio]`).Each(func(_ int, sel *goquery.Selection) {
		if snapshot.Bio == "" {
			snapshot.Bio = strings.TrimSpace(sel.Text())
		}
	})
	if snapshot.Bio == "" {
		// Bio pages without structured markup fall back to the description
		// tail after the stats sentence.
		if idx := statsPattern.FindStringIndex(description); idx != nil {
			tail := strings.TrimSpace(description[idx[1]:])
			snapshot.Bio = strings.TrimSpace(strings.TrimPrefix(tail, "-"))
		}
	}

	if href, ok := doc.Find(`[data-profile-url] a, a[rel="me"]`).First().Attr("href"); ok {
		snapshot.ExternalURL = href
	}

	snapshot.Verified = doc.Find(`[data-profile-verified], .verified-badge`).Length() > 0
	snapshot.Private = doc.Find(`[data-profile-private]`).Length() > 0

	doc.Find(`[data-post-likes]`).Each(func(i int, sel *goquery.Selection) {
		likes, _ := sel.Attr("data-post-likes")
		comments, _ := sel.Attr("data-post-comments")
		snapshot.RecentPosts = append(snapshot.RecentPosts, models.PostStats{
			Likes:    ParseCompactCount(likes),
			Comments: ParseCompactCount(comments),
		})
	})

	if snapshot.FollowerCount == 0 && snapshot.DisplayName == "" && description == "" {
		return nil, batch.NewError(batch.KindNotFound, "page for %q contains no profile data", handle)
	}

	return snapshot, nil
}

// ParseCompactCount parses counts like "1,234", "10.5K", "1.2M" or "2B".
// Unparseable input yields 0.
func ParseCompactCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	multiplier := float64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'B', 'b':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	s = strings.ReplaceAll(s, ",", "")
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(value * multiplier)
}

// cleanTitle strips the platform suffix from an og:title, e.g.
// "Acme (@acme) • Instagram photos" -> "Acme".
func cleanTitle(title, handle string) string {
	title = strings.TrimSpace(title)
	if idx := strings.Index(title, "(@"+handle+")"); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	if idx := strings.IndexAny(title, "•|"); idx > 0 {
		return strings.TrimSpace(title[:idx])
	}
	return title
}
