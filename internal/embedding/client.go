// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package embedding turns text into vectors via an OpenAI-compatible
// embeddings API.
package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/metrics"
	"github.com/cinemind/cinemind/internal/vector"
)

const (
	maxAttempts  = 3
	retryBackoff = time.Second
)

// ErrUnavailable indicates all embedding attempts failed.
var ErrUnavailable = errors.New("embedding unavailable")

// Embedder produces a fixed-dimension vector for a text. Implementations
// must fail loudly rather than return degenerate vectors; a zero vector
// would silently match nothing in cosine space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Client is the production Embedder.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     zerolog.Logger
}

// NewClient creates an embedding client from configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg config.EmbeddingConfig, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		logger:     logger.With().Str("component", "embedding").Logger(),
	}
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed returns the vector for a single text. Transient failures are retried
// with a short backoff; a 429 honors the server's Retry-After when present.
// A response with the wrong dimension or an all-zero vector is an error.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(backoff(lastErr, attempt)):
			case <-ctx.Done():
				metrics.EmbeddingCalls.WithLabelValues("failure").Inc()
				return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		vec, err := c.doRequest(ctx, text)
		if err == nil {
			metrics.EmbeddingCalls.WithLabelValues("success").Inc()
			return vec, nil
		}
		lastErr = err

		var perm *permanentError
		if errors.As(err, &perm) {
			metrics.EmbeddingCalls.WithLabelValues("failure").Inc()
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, perm.err)
		}

		c.logger.Warn().Err(err).Int("attempt", attempt).Msg("embedding attempt failed")
	}

	metrics.EmbeddingCalls.WithLabelValues("failure").Inc()
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrUnavailable, maxAttempts, lastErr)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// retryAfterError carries the server-requested wait from a 429.
type retryAfterError struct {
	err  error
	wait time.Duration
}

func (e *retryAfterError) Error() string { return e.err.Error() }
func (e *retryAfterError) Unwrap() error { return e.err }

func backoff(lastErr error, attempt int) time.Duration {
	var ra *retryAfterError
	if errors.As(lastErr, &ra) && ra.wait > 0 {
		return ra.wait
	}
	return retryBackoff * time.Duration(attempt-1)
}

func (c *Client) doRequest(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: c.model, Input: []string{text}})
	if err != nil {
		return nil, &permanentError{fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, &permanentError{fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, &retryAfterError{err: errors.New("embedding API rate limited"), wait: wait}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &permanentError{fmt.Errorf("embedding API returned status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("embedding API returned status %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("embedding API error: %s", parsed.Error.Message)
	}
	if len(parsed.Data) == 0 {
		return nil, errors.New("embedding response has no data")
	}

	raw := parsed.Data[0].Embedding
	if len(raw) != vector.Dim {
		return nil, &permanentError{fmt.Errorf("embedding has dimension %d, want %d", len(raw), vector.Dim)}
	}

	vec := make([]float32, vector.Dim)
	allZero := true
	for i, x := range raw {
		vec[i] = float32(x)
		if x != 0 {
			allZero = false
		}
	}
	if allZero {
		return nil, errors.New("embedding API returned a zero vector")
	}
	return vec, nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
