// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/vector"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.EmbeddingConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-embedding-model",
		Timeout: 5 * time.Second,
	}, zerolog.Nop())
}

func writeEmbedding(w http.ResponseWriter, vec []float64) {
	resp := map[string]any{
		"data": []map[string]any{{"embedding": vec}},
	}
	body, _ := json.Marshal(resp)
	_, _ = w.Write(body)
}

func unitVector() []float64 {
	vec := make([]float64, vector.Dim)
	vec[0] = 1
	return vec
}

func TestEmbedSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("request path = %q", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "test-embedding-model" {
			t.Errorf("request model = %q", req.Model)
		}
		if len(req.Input) != 1 || req.Input[0] != "heist movies" {
			t.Errorf("request input = %v", req.Input)
		}
		writeEmbedding(w, unitVector())
	})

	vec, err := client.Embed(context.Background(), "heist movies")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != vector.Dim {
		t.Fatalf("Embed() returned %d dims, want %d", len(vec), vector.Dim)
	}
	if vec[0] != 1 {
		t.Errorf("vec[0] = %f, want 1", vec[0])
	}
}

func TestEmbedRejectsWrongDimension(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeEmbedding(w, []float64{1, 2, 3})
	})

	_, err := client.Embed(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Embed() error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "dimension") {
		t.Errorf("Embed() error = %v, want dimension cause", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server saw %d calls, want 1 (dimension mismatch is permanent)", calls.Load())
	}
}

func TestEmbedRejectsZeroVector(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEmbedding(w, make([]float64, vector.Dim))
	})

	_, err := client.Embed(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Embed() error = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "zero vector") {
		t.Errorf("Embed() error = %v, want zero vector cause", err)
	}
}

func TestEmbedRetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeEmbedding(w, unitVector())
	})

	vec, err := client.Embed(context.Background(), "q")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != vector.Dim {
		t.Errorf("Embed() returned %d dims", len(vec))
	}
	if calls.Load() != 2 {
		t.Errorf("server saw %d calls, want 2", calls.Load())
	}
}

func TestEmbedHonorsRetryAfter(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeEmbedding(w, unitVector())
	})

	start := time.Now()
	if _, err := client.Embed(context.Background(), "q"); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < time.Second {
		t.Errorf("Embed() waited %s, want at least the Retry-After second", elapsed)
	}
}

func TestEmbedPermanentClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Embed(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Embed() error = %v, want ErrUnavailable", err)
	}
	if calls.Load() != 1 {
		t.Errorf("server saw %d calls, want 1 (401 is permanent)", calls.Load())
	}
}
