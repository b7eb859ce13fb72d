// Package reasoning adapts an OpenAI-compatible chat completions API
// (Groq by default) to the single-turn Reasoner port.
package reasoning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"civreg/pkg/platform/sentinel"
)

const (
	DefaultBaseURL   = "https://api.groq.com/openai/v1"
	DefaultModel     = "llama-3.1-8b-instant"
	DefaultMaxTokens = 500
)

var errEmptyResponse = errors.New("no choices in completion response")

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	// RequestsPerSecond caps outbound calls; zero disables limiting.
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client implements ports.Reasoner.
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	limiter   *rate.Limiter
	logger    *slog.Logger
}

type Option func(*Client)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("reasoning API key is required")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	c := &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    slog.Default(),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Complete sends prompt as one user message and returns the trimmed reply.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("reasoning rate limit: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("chat completion: %w", ctxErr)
		}
		return "", fmt.Errorf("chat completion: %w: %w", sentinel.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: %w: %w", sentinel.ErrUnavailable, errEmptyResponse)
	}
	c.logger.DebugContext(ctx, "reasoning completed",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens,
	)
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
