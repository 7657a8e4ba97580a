package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"autocontent/internal/faults"
	"autocontent/internal/logging"
)

// DefaultBaseURL is the OpenRouter chat completion endpoint.
const DefaultBaseURL = "https://openrouter.ai/api/v1/chat/completions"

const defaultTimeout = 15 * time.Second

// Config holds the connection settings for an OpenAI-compatible endpoint.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client requests JSON-only chat completions.
type Client struct {
	cfg    Config
	http   *http.Client
	retry  retryPolicy
	logger *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithRetryMaxAttempts caps the number of requests per completion. Values
// below one disable retries.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) { c.retry.attempts = attempts }
}

// WithRetryBackoff sets the first retry delay and the ceiling.
func WithRetryBackoff(base, ceiling time.Duration) Option {
	return func(c *Client) {
		c.retry.base = base
		c.retry.ceiling = ceiling
	}
}

// WithSleeper swaps the retry wait, mainly for tests.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(c *Client) { c.retry.sleeper = sleep }
}

// WithLogger reports retried requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "llm")
		}
	}
}

// NewClient builds a Client. A blank BaseURL selects OpenRouter.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.Referer = strings.TrimSpace(cfg.Referer)
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		retry:  defaultRetryPolicy(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompleteJSON sends the two prompts and returns the model's JSON payload as
// text. Transient failures are retried.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" || userPrompt == "" {
		return "", faults.Wrap(faults.ErrValidation, "llm complete", "system and user prompts are required", nil)
	}
	return c.complete(ctx, "llm complete", systemPrompt, userPrompt)
}

// HealthCheck asks for a fixed JSON reply to prove the key and model work.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.complete(ctx, "llm health", "You must respond with JSON only.", `Respond with {"ok":true}`)
	if err != nil {
		return err
	}
	var reply struct {
		OK bool `json:"ok"`
	}
	if err := DecodeJSON(content, &reply); err != nil {
		return faults.Wrap(faults.ErrExternalTool, "llm health", "parse reply", err)
	}
	if !reply.OK {
		return faults.Wrap(faults.ErrExternalTool, "llm health", "unexpected reply "+snippet(content), nil)
	}
	return nil
}

func (c *Client) complete(ctx context.Context, op, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", faults.Wrap(faults.ErrConfiguration, op, "api key required", nil)
	}
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("%s: encode request: %w", op, err)
	}

	attempts := max(c.retry.attempts, 1)
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		content, err := c.send(ctx, op, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		delay, retry := c.retry.next(ctx, err, attempt, attempts)
		if !retry {
			return "", err
		}
		logging.WarnWithContext(c.logger, "retrying completion", "llm_retry",
			logging.String("op", op),
			logging.Int("attempt", attempt),
			logging.Duration("delay", delay),
			logging.Error(err),
		)
		if err := c.retry.wait(ctx, delay); err != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: gave up after %d attempts: %w", op, attempts, lastErr)
}

// send performs one request and extracts the completion text.
func (c *Client) send(ctx context.Context, op string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request (timeout %s): %w", op, c.http.Timeout, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", &statusError{
			op:         op,
			code:       resp.StatusCode,
			body:       snippet(string(raw)),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", faults.Wrap(faults.ErrExternalTool, op, "decode response "+snippet(string(raw)), err)
	}
	if parsed.Error != nil {
		return "", faults.Wrap(faults.ErrExternalTool, op, "api error: "+strings.TrimSpace(parsed.Error.Message), nil)
	}
	content, finish := parsed.content()
	if content == "" {
		return "", &emptyReplyError{op: op, finish: finish, refusal: parsed.refusal(), body: snippet(string(raw))}
	}
	return content, nil
}

type statusError struct {
	op         string
	code       int
	body       string
	retryAfter time.Duration
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: http %d: %s", e.op, e.code, e.body)
}

func (e *statusError) Is(target error) bool { return target == faults.ErrExternalTool }

func (e *statusError) transient() bool {
	return e.code == http.StatusRequestTimeout || e.code == http.StatusTooManyRequests || e.code >= http.StatusInternalServerError
}

type emptyReplyError struct {
	op      string
	finish  string
	refusal string
	body    string
}

func (e *emptyReplyError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, refusal=%q, response=%s)", e.op, e.finish, e.refusal, e.body)
}

func (e *emptyReplyError) Is(target error) bool { return target == faults.ErrExternalTool }
