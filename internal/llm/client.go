// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package llm talks to an OpenAI-compatible chat completion API.
//
// Two model tiers are exposed: the capable tier handles ranking, preference
// analysis, comparison and enrichment, while the light tier handles query
// enhancement where loose output is acceptable. Calls are rate limited,
// wrapped in a circuit breaker, and retried on transient failure with a
// fixed delay between attempts. An empty completion body counts as a
// failure, never as a usable answer.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/metrics"
)

// Tier selects which configured model serves a request.
type Tier string

const (
	// TierCapable is the high-capability model.
	TierCapable Tier = "capable"

	// TierLight is the cheap, fast model.
	TierLight Tier = "light"
)

const (
	// maxAttempts bounds completion attempts per request.
	maxAttempts = 3

	// retryDelay separates consecutive attempts.
	retryDelay = 2 * time.Second
)

// ErrUnavailable indicates all completion attempts failed or the circuit
// is open.
var ErrUnavailable = errors.New("completion unavailable")

// errEmptyCompletion marks a structurally valid response with no content.
var errEmptyCompletion = errors.New("completion returned empty content")

// Request describes a single completion call.
type Request struct {
	// Tier selects the model.
	Tier Tier

	// System is the trusted system prompt.
	System string

	// User is the user-role message, possibly containing wrapped
	// untrusted content.
	User string

	// JSONMode requests a JSON object response when true.
	JSONMode bool

	// Temperature overrides the sampling temperature when non-nil.
	Temperature *float64

	// MaxTokens caps the completion length when positive.
	MaxTokens int
}

// Completer is the completion interface consumed by the pipeline. The
// orchestrator depends on this, not on the concrete client, so tests can
// substitute scripted responses.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Client is the production Completer.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	capableModel string
	lightModel   string
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[string]
	logger       zerolog.Logger
}

// NewClient creates a completion client from configuration.
// Circuit breaker settings: opens at 60% failures over at least 10 requests,
// counts reset every minute, half-open probe after 2 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg config.LLMConfig, logger zerolog.Logger) *Client {
	componentLogger := logger.With().Str("component", "llm").Logger()

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			componentLogger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		capableModel: cfg.CapableModel,
		lightModel:   cfg.LightModel,
		limiter:      rate.NewLimiter(limit, 1),
		breaker:      breaker,
		logger:       componentLogger,
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
	Temperature    *float64        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// permanentError marks failures that a retry cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Complete runs a completion with up to three attempts spaced two seconds
// apart. Transport errors, 5xx responses, 429s and empty completions are
// retried; other 4xx responses and an open circuit fail immediately.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	model := c.capableModel
	if req.Tier == TierLight {
		model = c.lightModel
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			metrics.LLMRetries.Inc()
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
		}

		start := time.Now()
		content, err := c.breaker.Execute(func() (string, error) {
			return c.doRequest(ctx, model, req)
		})
		status := "success"
		if err != nil {
			status = "failure"
		}
		metrics.LLMCallDuration.WithLabelValues(string(req.Tier), status).Observe(time.Since(start).Seconds())

		if err == nil {
			return content, nil
		}
		lastErr = err

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn().Err(err).Msg("completion rejected by circuit breaker")
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, perm.err)
		}

		c.logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Str("tier", string(req.Tier)).
			Msg("completion attempt failed")
	}

	return "", fmt.Errorf("%w after %d attempts: %w", ErrUnavailable, maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, model string, req Request) (string, error) {
	payload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &permanentError{fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &permanentError{fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("completion API returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", &permanentError{err}
		}
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion API error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errEmptyCompletion
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errEmptyCompletion
	}
	return content, nil
}
