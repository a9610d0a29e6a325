// ABOUTME: Tavily web search provider over the shared HTTP client
// ABOUTME: Issues ranked searches with a basic generated answer and domain exclusions

package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gbbinfo-knowledge-api/core/domain"
	coreerrors "gbbinfo-knowledge-api/core/errors"
	"gbbinfo-knowledge-api/core/interfaces"
)

const DefaultBaseURL = "https://api.tavily.com"

// DefaultExcludeDomains are sites whose results are never useful for a subject
var DefaultExcludeDomains = []string{
	"tiktok.com",
	"reddit.com",
	"swissbeatbox.com",
	"onrender.com",
	"wikipedia.org",
	"swiki.jp",
}

// Config configures the Tavily client
type Config struct {
	APIKey         string
	BaseURL        string
	MaxResults     int
	ExcludeDomains []string
}

// Client implements interfaces.SearchProvider
type Client struct {
	http   interfaces.HTTPClient
	config Config
}

type searchRequest struct {
	Query          string   `json:"query"`
	MaxResults     int      `json:"max_results"`
	IncludeAnswer  string   `json:"include_answer"`
	IncludeFavicon bool     `json:"include_favicon"`
	ExcludeDomains []string `json:"exclude_domains,omitempty"`
}

type searchResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
		Favicon string  `json:"favicon"`
	} `json:"results"`
}

type errorResponse struct {
	Detail struct {
		Error string `json:"error"`
	} `json:"detail"`
}

// NewClient creates a Tavily client
func NewClient(httpClient interfaces.HTTPClient, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("tavily API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.ExcludeDomains == nil {
		cfg.ExcludeDomains = DefaultExcludeDomains
	}

	return &Client{http: httpClient, config: cfg}, nil
}

// Search runs query and returns results in provider rank order
func (c *Client) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	body, err := json.Marshal(searchRequest{
		Query:          query,
		MaxResults:     c.config.MaxResults,
		IncludeAnswer:  "basic",
		IncludeFavicon: true,
		ExcludeDomains: c.config.ExcludeDomains,
	})
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to encode search request")
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/search"
	resp, err := c.http.Post(ctx, url, bytes.NewReader(body), map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
	})
	if err != nil {
		return nil, coreerrors.WrapError(err, "tavily search request failed")
	}
	defer resp.Body().Close()

	data, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to read search response")
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &coreerrors.ExternalAPIError{
			API:        "tavily",
			StatusCode: resp.StatusCode(),
			Message:    errorMessage(data, resp.StatusCode()),
		}
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, coreerrors.WrapError(err, "failed to decode search response")
	}

	result := &domain.SearchResponse{
		Answer:  parsed.Answer,
		Results: make([]domain.ResultItem, 0, len(parsed.Results)),
	}
	for _, item := range parsed.Results {
		result.Results = append(result.Results, domain.NewResultItem(item.Title, item.URL, item.Content))
	}

	return result, nil
}

func errorMessage(data []byte, status int) string {
	var parsed errorResponse
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Detail.Error != "" {
		return parsed.Detail.Error
	}

	message := strings.TrimSpace(string(data))
	if len(message) > 200 {
		message = message[:200]
	}
	if message == "" {
		message = fmt.Sprintf("status %d", status)
	}
	return message
}
