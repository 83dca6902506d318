// Package anthropic provides a minimal client for the Anthropic
// Messages API, covering only what mood analysis needs: send one user
// prompt, get the model's text back.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-haiku-4-5-20251001"
	apiVersion     = "2023-06-01"

	// The analysis format asks for two sentences; 300 tokens is plenty.
	maxTokens = 300

	retryAttempts = 3
)

// Sentinel errors.
var (
	// ErrRateLimited is returned when the API rate limit is still
	// exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the API rejects the key.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("empty model response")
)

// Client is an Anthropic Messages API client.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryDelay overrides the base delay between retries, for tests.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// NewClient creates a new Anthropic API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// statusError carries the HTTP status so retries can distinguish
// transient failures from permanent ones.
type statusError struct {
	code    int
	message string
}

func (e *statusError) Error() string {
	if e.message == "" {
		return fmt.Sprintf("anthropic: unexpected status %d", e.code)
	}
	return fmt.Sprintf("anthropic: status %d: %s", e.code, e.message)
}

// Generate sends the prompt as a single user message and returns the
// model's text. Rate limits and server errors are retried with backoff;
// anything else fails immediately.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := retry.Do(
		func() error {
			var err error
			text, err = c.sendMessage(ctx, prompt)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(retryAttempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code == http.StatusTooManyRequests || se.code/100 == 5
			}
			return false
		}),
	)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			switch {
			case se.code == http.StatusTooManyRequests:
				return "", ErrRateLimited
			case se.code == http.StatusUnauthorized || se.code == http.StatusForbidden:
				return "", ErrInvalidAPIKey
			}
		}
		return "", err
	}
	return text, nil
}

func (c *Client) sendMessage(ctx context.Context, prompt string) (string, error) {
	payload := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("anthropic: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &statusError{code: resp.StatusCode}
		var parsed messageResponse
		if err := json.NewDecoder(resp.Body).Decode(&parsed); err == nil && parsed.Error != nil {
			se.message = parsed.Error.Message
		}
		return "", se
	}

	var parsed messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	for _, block := range parsed.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return block.Text, nil
		}
	}
	return "", ErrEmptyResponse
}
