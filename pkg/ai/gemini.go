// Package ai implements plan.Generator on top of the Gemini API.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kaptinlin/jsonrepair"
	"github.com/stefanpenner/stratlife/pkg/plan"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when Config.Model is empty.
	DefaultModel = "gemini-2.5-flash"

	defaultCacheSize = 32
)

// Config holds what the Gemini client needs.
type Config struct {
	APIKey    string
	Model     string
	CacheSize int
}

// contentGenerator is the slice of *genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client is a plan.Generator backed by Gemini. The SDK client is created on
// first use so a missing key never fails at startup.
type Client struct {
	apiKey string
	model  string
	logger *slog.Logger

	// Free-text answers keyed by model and prompt.
	cache *lru.Cache[string, string]

	mu     sync.Mutex
	models contentGenerator
}

var _ plan.Generator = (*Client)(nil)

// NewClient returns a Gemini-backed generator.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = defaultCacheSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	// lru.New only errors on non-positive size which we guard above.
	cache, _ := lru.New[string, string](cfg.CacheSize)
	return &Client{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
		logger: logger,
		cache:  cache,
	}
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

func (c *Client) sdk(ctx context.Context) (contentGenerator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.models != nil {
		return c.models, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  c.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	c.models = client.Models
	return c.models, nil
}

// Generate implements plan.Generator.
func (c *Client) Generate(ctx context.Context, req plan.Request) (string, error) {
	if c.apiKey == "" {
		return "", plan.ErrMissingCredential
	}

	cacheKey := c.model + "\x00" + req.Prompt
	if req.Schema == nil {
		if text, ok := c.cache.Get(cacheKey); ok {
			c.logger.Debug("serving cached generation", "model", c.model)
			return text, nil
		}
	}

	models, err := c.sdk(ctx)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	c.logger.Debug("gemini generate", "model", c.model, "structured", req.Schema != nil)
	res, err := models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", nil
	}

	if req.Schema != nil {
		return repairJSON(text, c.logger), nil
	}
	c.cache.Add(cacheKey, text)
	return text, nil
}

// repairJSON returns text as valid JSON when it can. Code fences are
// stripped first; anything still invalid goes through jsonrepair. If repair
// fails the original text is returned and the caller's decode reports it.
func repairJSON(text string, logger *slog.Logger) string {
	text = stripCodeFence(text)
	if json.Valid([]byte(text)) {
		return text
	}
	fixed, err := jsonrepair.JSONRepair(text)
	if err != nil {
		logger.Warn("model output is not repairable JSON", "err", err)
		return text
	}
	logger.Debug("repaired model JSON", "before", len(text), "after", len(fixed))
	return fixed
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.Index(text, "\n"); nl >= 0 {
		// drop the language tag line
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
