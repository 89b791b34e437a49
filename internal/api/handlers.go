// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/models"
	"github.com/cinemind/cinemind/internal/recommend"
)

// RecommendService is the pipeline surface the handlers consume.
type RecommendService interface {
	Recommend(ctx context.Context, query string, limit int) (*models.RecommendResult, error)
	SummarizePreferences(ctx context.Context, userID int64) (*models.PreferenceSummary, error)
	Compare(ctx context.Context, movieIDs []int64) (*models.Comparison, error)
}

// Handler serves the recommendation endpoints.
type Handler struct {
	service RecommendService
	db      pinger
	logger  zerolog.Logger
}

// pinger is the minimal health-check surface of the database handle.
type pinger interface {
	Ping(ctx context.Context) error
}

// NewHandler creates the HTTP handler set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(service RecommendService, db pinger, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		db:      db,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

type recommendRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type compareRequest struct {
	MovieIDs []int64 `json:"movie_ids"`
}

// Recommend handles POST /api/v1/recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON with a query field", err)
		return
	}

	result, err := h.service.Recommend(r.Context(), req.Query, req.Limit)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, result)
}

// Preferences handles GET /api/v1/users/{userID}/preferences.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_USER_ID", "User id must be an integer", err)
		return
	}

	summary, err := h.service.SummarizePreferences(r.Context(), userID)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, summary)
}

// Compare handles POST /api/v1/compare.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "Request body must be JSON with a movie_ids field", err)
		return
	}

	comparison, err := h.service.Compare(r.Context(), req.MovieIDs)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, comparison)
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			respondError(w, http.StatusServiceUnavailable, "DATABASE_UNAVAILABLE", "Database ping failed", err)
			return
		}
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// respondPipelineError maps the pipeline error taxonomy to HTTP statuses.
// Blocked input never reaches here; it is an explained empty result.
func (h *Handler) respondPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error(), nil)
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, recommend.ErrValidation):
		respondError(w, http.StatusBadGateway, "INVALID_UPSTREAM_RESPONSE",
			"The reasoning service returned an unusable response", err)
	case errors.Is(err, recommend.ErrUpstream):
		respondError(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE",
			"A required upstream service is unavailable", err)
	default:
		h.logger.Error().Err(err).Msg("unhandled pipeline error")
		respondError(w, http.StatusInternalServerError, "INTERNAL", "Internal server error", err)
	}
}
