// Package ai talks to an OpenAI-compatible chat-completions endpoint and turns
// the replies into note tags and writing suggestions.
package ai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Defaults used when ClientConfig leaves a field empty.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerMinute = 30
	DefaultTemperature       = 0.3
)

// Chat roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RequestOptions tunes a single completion. Zero values fall back to the
// client defaults.
type RequestOptions struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// URL is the full chat-completions URL, e.g. https://host/chat/completions.
	URL               string
	Token             string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
	Logger            *slog.Logger
}

// Client sends chat-completion requests.
// A client without a token is disabled and fails fast with ErrDisabled.
type Client struct {
	http        *http.Client
	rateLimiter *rate.Limiter
	url         string
	token       string
	model       string
	logger      *slog.Logger
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitzero"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p,omitzero"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// NewClient creates a chat-completions client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		// rpm requests per minute, bursting up to a tenth of that
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), max(1, rpm/10)),
		url:         cfg.URL,
		token:       cfg.Token,
		model:       cfg.Model,
		logger:      logger,
	}
}

// Enabled reports whether the client has a token to call the endpoint with.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// wait blocks until rate limiter allows a request.
func (c *Client) wait(ctx context.Context) error {
	return c.rateLimiter.Wait(ctx)
}

// ChatCompletion sends messages and returns the first choice's content, trimmed.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, opts RequestOptions) (string, error) {
	if !c.Enabled() {
		return "", wrapError("chat", 0, ErrDisabled)
	}

	if err := c.wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}

	temperature := opts.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   opts.MaxTokens,
		Temperature: temperature,
		TopP:        opts.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", wrapError("chat", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Keep a little of the body for the log; providers put the reason there.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("chat completion failed",
			"status", resp.StatusCode,
			"model", c.model,
			"body", strings.TrimSpace(string(body)),
		)
		return "", wrapError("chat", resp.StatusCode, errorForStatus(resp.StatusCode))
	}

	var result chatResponse
	if err := json.UnmarshalRead(resp.Body, &result); err != nil {
		return "", wrapError("chat", resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	if len(result.Choices) == 0 {
		return "", wrapError("chat", resp.StatusCode, ErrEmptyReply)
	}

	c.logger.Debug("chat completion",
		"model", c.model,
		"messages", len(messages),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}
