// ABOUTME: Gemini text-generation provider built on the google genai SDK
// ABOUTME: Serializes calls through a shared limiter and memoizes replies per prompt

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"google.golang.org/genai"

	coreerrors "gbbinfo-knowledge-api/core/errors"
	"gbbinfo-knowledge-api/core/interfaces"
	"gbbinfo-knowledge-api/core/ratelimit"
)

const (
	DefaultModel    = "gemini-2.0-flash-lite"
	DefaultInterval = 2 * time.Second
	DefaultTimeout  = 20 * time.Second

	// replyTTL bounds how long a memoized reply is reused
	replyTTL = 24 * time.Hour
)

// generator is the subset of genai.Models used by Client
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures the Gemini client
type Config struct {
	APIKey   string
	Model    string
	Interval time.Duration
	Timeout  time.Duration
}

// Client implements interfaces.LLMProvider
type Client struct {
	models  generator
	model   string
	timeout time.Duration
	limiter *ratelimit.Limiter
	cache   interfaces.Cache
	logger  interfaces.Logger
}

// safetySettings blocks only high-probability harm in every category
var safetySettings = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockOnlyHigh},
}

// NewClient creates a Gemini client. cache may be nil, in which case replies
// are not memoized.
func NewClient(ctx context.Context, cfg Config, cache interfaces.Cache, logger interfaces.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	sdk, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newClient(sdk.Models, cfg, cache, logger), nil
}

func newClient(models generator, cfg Config, cache interfaces.Cache, logger interfaces.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		models:  models,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: ratelimit.New(cfg.Interval),
		cache:   cache,
		logger:  logger,
	}
}

// Generate sends prompt to the model and returns its raw text reply.
// Identical prompts are answered from the cache without a model call. Only
// replies that are valid JSON are memoized.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	key := replyKey(prompt)
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, key); err == nil {
			return string(cached), nil
		}
	}

	if err := c.limiter.Acquire(ctx); err != nil {
		return "", coreerrors.WrapError(err, "waiting for gemini rate limit")
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.models.GenerateContent(callCtx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		SafetySettings:   safetySettings,
	})
	if err != nil {
		return "", &coreerrors.ExternalAPIError{
			API:     "gemini",
			Message: err.Error(),
		}
	}

	text := strings.TrimSpace(resp.Text())
	if c.logger != nil {
		c.logger.Debug("Gemini reply received", map[string]interface{}{
			"model":    c.model,
			"duration": time.Since(start).String(),
			"length":   len(text),
		})
	}
	if text == "" {
		return "", &coreerrors.ExternalAPIError{API: "gemini", Message: "empty reply"}
	}

	if c.cache != nil && json.Valid([]byte(text)) {
		_ = c.cache.Set(ctx, key, []byte(text), replyTTL)
	}
	return text, nil
}

// replyKey is the cache key of a prompt's reply
func replyKey(prompt string) string {
	return fmt.Sprintf("gemini_%016x", xxhash.Sum64String(prompt))
}
