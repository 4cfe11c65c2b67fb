package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	rand "math/rand/v2"
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/pkg/randutil"
)

const maxResponseBytes = 1 << 20

type Config struct {
	BaseURL        string
	Referer        string
	Title          string
	MaxAttempts    int
	InitialBackoff time.Duration
	RequestTimeout time.Duration
	Temperature    float64
	MaxTokens      int
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://openrouter.ai/api/v1",
		Referer:        "https://ai-board-game-arena.web.app",
		Title:          "AI Board Game Arena",
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		RequestTimeout: 60 * time.Second,
		Temperature:    0.7,
		MaxTokens:      50,
	}
}

// Notifier receives advisory messages meant for the game log. Notices never
// influence retries or the chosen column.
type Notifier func(message string)

// Client asks an OpenRouter compatible chat-completions endpoint for moves
// and always ends up with a legal column: transient failures are retried with
// exponential backoff, anything else falls back to a random valid column.
type Client struct {
	cfg        Config
	httpClient *http.Client
	clock      quartz.Clock
	logger     *log.Logger

	mu  sync.Mutex
	rng *rand.Rand

	// sleep waits between attempts; replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient fills zero config values from DefaultConfig. A nil rng is seeded
// from the operating system.
func NewClient(cfg Config, httpClient *http.Client, clock quartz.Clock, rng *rand.Rand, logger *log.Logger) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = def.InitialBackoff
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	if rng == nil {
		rng = randutil.NewRandom()
	}
	if logger == nil {
		logger = log.Default()
	}

	c := &Client{
		cfg:        cfg,
		httpClient: httpClient,
		clock:      clock,
		logger:     logger.WithPrefix("ai"),
		rng:        rng,
	}
	c.sleep = c.wait
	return c
}

// RequestMove returns a member of domain.ValidMoves(board). It never fails:
// a full board, a caller contract violation, is the only case returning -1.
func (c *Client) RequestMove(ctx context.Context, board domain.Board, seat domain.Seat, apiKey string, notify Notifier) int {
	if notify == nil {
		notify = func(string) {}
	}

	validMoves := domain.ValidMoves(board)
	if len(validMoves) == 0 {
		c.logger.Error("No valid moves available", "seat", seat.Label)
		return -1
	}

	logger := c.logger.With("seat", seat.Label, "model", seat.Config.Model)
	prompt := BuildPrompt(board, seat, validMoves)
	delay := c.cfg.InitialBackoff

	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		content, err := c.complete(ctx, seat.Config.Model, apiKey, prompt)
		if err == nil {
			column, parseErr := ParseMove(content)
			if parseErr == nil && slices.Contains(validMoves, column) {
				logger.Debug("Model chose column", "column", column, "attempt", attempt)
				return column
			}

			logger.Warn("Model returned an invalid move, picking a random one",
				"content", truncate(content, 200),
				"error", parseErr,
				"validMoves", validMoves)
			notify(fmt.Sprintf("%s returned an invalid move. Picking a random one.", seat.Label))
			return c.randomMove(validMoves)
		}

		if ctx.Err() != nil {
			logger.Warn("Move request cancelled, picking a random move", "error", ctx.Err())
			return c.randomMove(validMoves)
		}

		logger.Warn("Move request failed",
			"attempt", attempt,
			"maxAttempts", c.cfg.MaxAttempts,
			"rateLimited", IsRateLimited(err),
			"error", err)

		if attempt == c.cfg.MaxAttempts {
			break
		}

		if IsRateLimited(err) {
			notify(fmt.Sprintf("Rate limit hit. Retrying in %ss...", strconv.FormatFloat(delay.Seconds(), 'f', -1, 64)))
		}

		if err := c.sleep(ctx, delay); err != nil {
			logger.Warn("Backoff interrupted, picking a random move", "error", err)
			return c.randomMove(validMoves)
		}
		delay *= 2
	}

	logger.Error("Move request failed after all retries, picking a random move", "attempts", c.cfg.MaxAttempts)
	notify(fmt.Sprintf("API for %s failed after all retries. Making a random move.", seat.Label))
	return c.randomMove(validMoves)
}

func (c *Client) randomMove(validMoves []int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validMoves[c.rng.IntN(len(validMoves))]
}

func (c *Client) wait(ctx context.Context, d time.Duration) error {
	timer := c.clock.NewTimer(d, "ai", "backoff")
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
}

type apiErrorBody struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiErrorBody `json:"error,omitempty"`
}

// complete performs one chat-completions round trip and returns the content
// of the first choice.
func (c *Client) complete(ctx context.Context, model, apiKey string, prompt Prompt) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    c.cfg.Temperature,
		MaxTokens:      c.cfg.MaxTokens,
	})
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("encode request: %w", err)}
	}

	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Referer != "" {
		req.Header.Set("HTTP-Referer", c.cfg.Referer)
	}
	if c.cfg.Title != "" {
		req.Header.Set("X-Title", c.cfg.Title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body, "Rate limit exceeded.")}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body, "Unknown API error")}
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &TransportError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(decoded.Choices) == 0 {
		if decoded.Error != nil {
			return "", &APIError{StatusCode: resp.StatusCode, Message: decoded.Error.Message}
		}
		return "", nil
	}

	return decoded.Choices[0].Message.Content, nil
}

func errorMessage(body []byte, fallback string) string {
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error != nil && decoded.Error.Message != "" {
		return decoded.Error.Message
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
