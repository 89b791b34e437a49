// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/models"
	"github.com/cinemind/cinemind/internal/recommend"
)

// mockService scripts pipeline results per flow.
type mockService struct {
	recommendResult *models.RecommendResult
	recommendErr    error
	preferences     *models.PreferenceSummary
	preferencesErr  error
	comparison      *models.Comparison
	comparisonErr   error
}

func (m *mockService) Recommend(_ context.Context, _ string, _ int) (*models.RecommendResult, error) {
	return m.recommendResult, m.recommendErr
}

func (m *mockService) SummarizePreferences(_ context.Context, _ int64) (*models.PreferenceSummary, error) {
	return m.preferences, m.preferencesErr
}

func (m *mockService) Compare(_ context.Context, _ []int64) (*models.Comparison, error) {
	return m.comparison, m.comparisonErr
}

func newTestRouter(service *mockService) http.Handler {
	handler := NewHandler(service, nil, zerolog.Nop())
	return NewRouter(handler, config.APIConfig{
		CORSOrigins:     []string{"*"},
		RateLimitReqs:   0,
		RateLimitWindow: time.Minute,
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response envelope: %v (body %s)", err, rec.Body.String())
	}
	return envelope
}

func TestRecommendEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{
		recommendResult: &models.RecommendResult{
			Recommendations: []models.Recommendation{{MovieID: 1, Title: "Solaris", MatchScore: 90}},
			Reasoning:       "fits",
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend",
		strings.NewReader(`{"query": "slow sci-fi", "limit": 5}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q", envelope.Status)
	}
}

func TestRecommendEndpointRejectsBadBody(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommend", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Error == nil || envelope.Error.Code != "INVALID_BODY" {
		t.Errorf("error = %+v", envelope.Error)
	}
}

func TestErrorTaxonomyMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid argument",
			err:        fmt.Errorf("%w: bad count", recommend.ErrInvalidArgument),
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_ARGUMENT",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("%w: movie 9", recommend.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "validation failure",
			err:        fmt.Errorf("%w: bad shape", recommend.ErrValidation),
			wantStatus: http.StatusBadGateway,
			wantCode:   "INVALID_UPSTREAM_RESPONSE",
		},
		{
			name:       "upstream unavailable",
			err:        fmt.Errorf("%w: llm down", recommend.ErrUpstream),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "UPSTREAM_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(&mockService{comparisonErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/compare",
				strings.NewReader(`{"movie_ids": [1, 2]}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			envelope := decodeEnvelope(t, rec)
			if envelope.Error == nil || envelope.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %q", envelope.Error, tt.wantCode)
			}
		})
	}
}

func TestPreferencesEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{
		preferences: &models.PreferenceSummary{
			Summary:        "likes slow sci-fi",
			FavoriteGenres: []string{"Science Fiction"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7/preferences", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestPreferencesEndpointRejectsNonNumericID(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/abc/preferences", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "go_") {
		t.Error("metrics output missing runtime collectors")
	}
}
