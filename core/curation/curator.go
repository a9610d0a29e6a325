// ABOUTME: Link curation turns ranked search results into account and informational buckets
// ABOUTME: Applies banned-word filtering, per-domain dedup, a teaser side channel and count bounds

package curation

import (
	"regexp"
	"strings"

	"gbbinfo-knowledge-api/core/domain"
)

// DefaultBannedWords are matched case-insensitively against title, URL and content
var DefaultBannedWords = []string{"HATEN", "BEATCITY", "JPN CUP", "WIKI", "/PLAYLIST"}

var accountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(https?://)?(www\.)?youtube\.com/(c/|channel/|user/|@)[a-zA-Z0-9_-]+/?$`),
	regexp.MustCompile(`^(https?://)?(www\.)?instagram\.com/[a-zA-Z0-9_.]+/?$`),
	regexp.MustCompile(`^(https?://)?(www\.)?facebook\.com/[a-zA-Z0-9_.]+/?$`),
}

// Config controls curation policy
type Config struct {
	// BannedWords disqualify an item when found in any field
	BannedWords []string

	// MinInformational is the backfill target for the informational bucket
	MinInformational int

	// MaxInformational caps the informational bucket. 0 disables the cap.
	MaxInformational int
}

// DefaultConfig returns the production curation policy
func DefaultConfig() Config {
	return Config{
		BannedWords:      DefaultBannedWords,
		MinInformational: 3,
		MaxInformational: 5,
	}
}

// Curator classifies search results. It holds no mutable state and is safe
// for concurrent use.
type Curator struct {
	bannedWords []string
	min         int
	max         int
}

// NewCurator creates a curator for the given policy
func NewCurator(cfg Config) *Curator {
	banned := make([]string, 0, len(cfg.BannedWords))
	for _, word := range cfg.BannedWords {
		if word = strings.TrimSpace(word); word != "" {
			banned = append(banned, strings.ToUpper(word))
		}
	}
	return &Curator{
		bannedWords: banned,
		min:         cfg.MinInformational,
		max:         cfg.MaxInformational,
	}
}

// Curate computes the display-ready link set from results in provider rank
// order. The returned buckets are never nil.
func (c *Curator) Curate(results []domain.ResultItem) *domain.CurationResult {
	result := domain.EmptyCurationResult()
	items := c.Filter(results)

	teaserURL := ""
	for _, item := range items {
		if !isVideoPlatform(item.PrimaryDomain) {
			continue
		}
		if id, ok := ExtractVideoID(item.URL); ok {
			teaserURL = item.URL
			result.YoutubeEmbedURL = EmbedURL(id)
			break
		}
	}

	// Teaser and account links are excluded by URL so repeated results
	// cannot slip into the informational bucket.
	excluded := make(map[string]bool)
	if teaserURL != "" {
		excluded[teaserURL] = true
	}

	accountDomains := make(map[string]bool)
	for _, item := range items {
		if excluded[item.URL] || !IsAccount(item) || accountDomains[item.PrimaryDomain] {
			continue
		}
		excluded[item.URL] = true
		accountDomains[item.PrimaryDomain] = true
		result.AccountURLs = append(result.AccountURLs, item)
	}

	included := make(map[string]bool)
	finalDomains := make(map[string]bool)
	for _, item := range items {
		if excluded[item.URL] || included[item.URL] || finalDomains[item.PrimaryDomain] {
			continue
		}
		included[item.URL] = true
		finalDomains[item.PrimaryDomain] = true
		result.FinalURLs = append(result.FinalURLs, item)
	}

	for _, item := range items {
		if len(result.FinalURLs) >= c.min {
			break
		}
		if excluded[item.URL] || included[item.URL] {
			continue
		}
		included[item.URL] = true
		result.FinalURLs = append(result.FinalURLs, item)
	}

	if c.max > 0 && len(result.FinalURLs) > c.max {
		result.FinalURLs = result.FinalURLs[:c.max]
	}

	return result
}

// Filter drops banned items and fills in missing primary domains
func (c *Curator) Filter(results []domain.ResultItem) []domain.ResultItem {
	filtered := make([]domain.ResultItem, 0, len(results))
	for _, item := range results {
		if c.IsBanned(item) {
			continue
		}
		if item.PrimaryDomain == "" {
			item.PrimaryDomain = domain.PrimaryDomain(item.URL)
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// IsBanned reports whether any banned word occurs in the item's title, URL or content
func (c *Curator) IsBanned(item domain.ResultItem) bool {
	fields := [...]string{
		strings.ToUpper(item.Title),
		strings.ToUpper(item.URL),
		strings.ToUpper(item.Content),
	}
	for _, word := range c.bannedWords {
		for _, field := range fields {
			if strings.Contains(field, word) {
				return true
			}
		}
	}
	return false
}

// IsAccount reports whether the item looks like a profile or channel page
func IsAccount(item domain.ResultItem) bool {
	if strings.Contains(item.URL, "@") || strings.Contains(item.Title, "@") {
		return true
	}
	for _, pattern := range accountPatterns {
		if pattern.MatchString(item.URL) {
			return true
		}
	}
	return false
}
