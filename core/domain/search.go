// ABOUTME: Search domain models for third-party knowledge lookups
// ABOUTME: Defines result items, the cached search record, and the curated link set

package domain

import (
	"net/url"
	"strings"
)

// Column names of a SearchRecord in the durable store.
const (
	ColumnSearchResults      = "searchResults"
	ColumnAnswer             = "answer"
	ColumnAnswerTranslations = "answerTranslations"
)

// ResultItem is a single ranked result returned by the search provider
type ResultItem struct {
	// Title is the page title
	Title string `json:"title"`

	// URL is the result's address
	URL string `json:"url"`

	// Content is the provider's extracted snippet
	Content string `json:"content"`

	// PrimaryDomain is derived from URL, see PrimaryDomain
	PrimaryDomain string `json:"primaryDomain"`
}

// NewResultItem builds a ResultItem and derives its primary domain
func NewResultItem(title, rawURL, content string) ResultItem {
	return ResultItem{
		Title:         title,
		URL:           rawURL,
		Content:       content,
		PrimaryDomain: PrimaryDomain(rawURL),
	}
}

// PrimaryDomain returns the last two dot-separated labels of the URL's host,
// lowercased. Hosts with a single label are returned unchanged.
func PrimaryDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return host
}

// SearchResponse is what the search provider returns for one query
type SearchResponse struct {
	// Answer is the provider's generated summary, may be empty
	Answer string

	// Results are ordered by provider rank
	Results []ResultItem
}

// SearchRecord is the durable cache unit for one subject
type SearchRecord struct {
	SearchResults      []ResultItem      `json:"searchResults"`
	Answer             string            `json:"answer"`
	AnswerTranslations map[string]string `json:"answerTranslations,omitempty"`
}

// NewSearchRecord converts a provider response into a record ready for caching
func NewSearchRecord(resp *SearchResponse) *SearchRecord {
	record := &SearchRecord{
		SearchResults: make([]ResultItem, 0, len(resp.Results)),
		Answer:        resp.Answer,
	}
	for _, item := range resp.Results {
		if item.PrimaryDomain == "" {
			item.PrimaryDomain = PrimaryDomain(item.URL)
		}
		record.SearchResults = append(record.SearchResults, item)
	}
	return record
}

// CurationResult is the display-ready link set computed per request
type CurationResult struct {
	AccountURLs     []ResultItem
	FinalURLs       []ResultItem
	YoutubeEmbedURL string
}

// EmptyCurationResult returns a result with non-nil, empty buckets
func EmptyCurationResult() *CurationResult {
	return &CurationResult{
		AccountURLs: []ResultItem{},
		FinalURLs:   []ResultItem{},
	}
}
