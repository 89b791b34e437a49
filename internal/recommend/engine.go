// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/embedding"
	"github.com/cinemind/cinemind/internal/guardrail"
	"github.com/cinemind/cinemind/internal/llm"
	"github.com/cinemind/cinemind/internal/metrics"
	"github.com/cinemind/cinemind/internal/models"
	"github.com/cinemind/cinemind/internal/vector"
)

// Index is the nearest-neighbor store consumed by the pipeline.
type Index interface {
	Search(ctx context.Context, vec []float32, k int) ([]vector.Hit, error)
	Built() bool
	Count() int
}

// Engine composes the pipeline parts into the caller-facing flows. All
// dependencies are constructed once at startup and injected explicitly.
type Engine struct {
	input     *guardrail.Input
	output    *guardrail.Output
	enhancer  *Enhancer
	embedder  embedding.Embedder
	index     Index
	assembler *Assembler
	catalog   Catalog
	completer llm.Completer
	backfill  *Backfill
	logger    zerolog.Logger
}

// NewEngine wires the pipeline. The backfill worker may be nil, in which
// case opportunistic enrichment is disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(
	input *guardrail.Input,
	output *guardrail.Output,
	enhancer *Enhancer,
	embedder embedding.Embedder,
	index Index,
	assembler *Assembler,
	catalog Catalog,
	completer llm.Completer,
	backfill *Backfill,
	logger zerolog.Logger,
) *Engine {
	return &Engine{
		input:     input,
		output:    output,
		enhancer:  enhancer,
		embedder:  embedder,
		index:     index,
		assembler: assembler,
		catalog:   catalog,
		completer: completer,
		backfill:  backfill,
		logger:    logger.With().Str("component", "engine").Logger(),
	}
}

// Recommend runs the primary query flow. Blocked input, an empty index,
// zero retrieval hits, reasoning outages and invalid responses all surface
// as explained empty results rather than errors; only internal store
// failures return an error.
func (e *Engine) Recommend(ctx context.Context, query string, limit int) (*models.RecommendResult, error) {
	if limit <= 0 || limit > maxRecommendations {
		limit = maxRecommendations
	}

	requestID := uuid.NewString()
	logger := e.logger.With().Str("request_id", requestID).Logger()
	logger.Debug().Int("query_len", len(query)).Int("limit", limit).Msg("recommendation request")

	sanitized, truncated, err := e.input.SanitizeQuery(query)
	if err != nil {
		if errors.Is(err, guardrail.ErrBlocked) {
			metrics.RecommendRequests.WithLabelValues("blocked").Inc()
			return emptyResult(blockedMessage), nil
		}
		return nil, fmt.Errorf("sanitize query: %w", err)
	}
	if truncated {
		logger.Info().Int("max_len", guardrail.MaxQueryLen).Msg("query truncated to maximum length")
	}
	if sanitized == "" {
		metrics.RecommendRequests.WithLabelValues("no_candidates").Inc()
		return emptyResult(noMoviesMessage), nil
	}

	// An index with nothing in it cannot retrieve; stop before spending
	// any embedding or reasoning call.
	if !e.index.Built() || e.index.Count() == 0 {
		metrics.RecommendRequests.WithLabelValues("no_candidates").Inc()
		return emptyResult(noMoviesMessage), nil
	}

	searchQuery, enhanced := e.enhancer.Enhance(ctx, sanitized)

	candidates, err := e.retrieve(ctx, searchQuery)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		metrics.RecommendRequests.WithLabelValues("no_candidates").Inc()
		return emptyResult(noMoviesMessage), nil
	}
	if len(candidates) > maxPromptCandidates {
		candidates = candidates[:maxPromptCandidates]
	}

	result, outcome := e.reason(ctx, sanitized, candidates, limit)
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()
	if enhanced && len(result.Recommendations) > 0 {
		result.EnhancedQuery = searchQuery
	}
	return result, nil
}

// retrieve embeds the query and searches the index. An embedding outage
// degrades to a popularity sample from the catalog so the reasoning step
// still has material to work with.
func (e *Engine) retrieve(ctx context.Context, query string) ([]models.Candidate, error) {
	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.logger.Warn().Err(err).Msg("embedding unavailable, falling back to catalog sample")
		sample, sampleErr := e.catalog.ListSample(ctx, maxPromptCandidates)
		if sampleErr != nil {
			return nil, fmt.Errorf("catalog sample fallback: %w", sampleErr)
		}
		candidates := make([]models.Candidate, len(sample))
		for i, m := range sample {
			candidates[i] = models.Candidate{Movie: m}
		}
		return candidates, nil
	}

	hits, err := e.index.Search(ctx, vec, retrievalTopK)
	if err != nil {
		if errors.Is(err, vector.ErrNotBuilt) {
			return []models.Candidate{}, nil
		}
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return e.assembler.Assemble(ctx, hits)
}

// reason runs the ranking call and output validation, returning the result
// and the metric outcome label.
func (e *Engine) reason(ctx context.Context, query string, candidates []models.Candidate, limit int) (*models.RecommendResult, string) {
	raw, err := e.completer.Complete(ctx, llm.BuildRecommendPrompt(query, candidates, limit))
	if err != nil {
		e.logger.Error().Err(err).Msg("recommendation reasoning failed")
		return emptyResult(unavailableMessage), "error"
	}

	recs, reasoning, err := parseRecommendations(raw)
	if err != nil {
		e.logger.Warn().Err(err).Msg("recommendation response unparseable")
		return emptyResult(invalidResponseMessage), "invalid"
	}

	validIDs := make(map[int64]bool, len(candidates))
	byID := make(map[int64]models.Candidate, len(candidates))
	for _, c := range candidates {
		validIDs[c.ID] = true
		byID[c.ID] = c
	}

	recs, err = e.output.ValidateRecommendations(recs, validIDs)
	if err != nil {
		e.logger.Warn().Err(err).Msg("recommendation response rejected by output guardrail")
		return emptyResult(invalidResponseMessage), "invalid"
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}

	for i := range recs {
		candidate := byID[recs[i].MovieID]
		recs[i].Title = candidate.Title
		if recs[i].Enrichment == nil {
			recs[i].Enrichment = candidate.Enrichment
		}
		if recs[i].Enrichment == nil && e.backfill != nil {
			e.backfill.Enqueue(candidate.Movie)
		}
	}

	return &models.RecommendResult{
		Recommendations: recs,
		Reasoning:       guardrail.Truncate(reasoning, guardrail.MaxReasoningLen),
	}, "returned"
}

// SummarizePreferences analyzes a user's rating history. A user with no
// history is a not-found condition; a reasoning outage or invalid response
// is an error since there is no safe partial fallback for a single
// coherent claim about a user.
func (e *Engine) SummarizePreferences(ctx context.Context, userID int64) (*models.PreferenceSummary, error) {
	history, err := e.catalog.ListUserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load rating history: %w", err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: user %d has no rating history", ErrNotFound, userID)
	}

	raw, err := e.completer.Complete(ctx, llm.BuildPreferencesPrompt(history))
	if err != nil {
		return nil, fmt.Errorf("%w: preference reasoning: %w", ErrUpstream, err)
	}

	summary, err := parsePreferences(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	summary.Summary = guardrail.Truncate(summary.Summary, guardrail.MaxSummaryLen)
	if len(summary.FavoriteGenres) > guardrail.MaxGenres {
		summary.FavoriteGenres = summary.FavoriteGenres[:guardrail.MaxGenres]
	}
	if err := e.output.ValidatePreferences(summary); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if len(history) > topRatedCount {
		history = history[:topRatedCount]
	}
	summary.TopRated = history
	return summary, nil
}

// Compare contrasts between two and five movies. All ids must resolve;
// a single unknown id fails the whole request rather than comparing a
// partial set. The free-text comparison and optional winner intentionally
// skip output-guardrail validation.
func (e *Engine) Compare(ctx context.Context, movieIDs []int64) (*models.Comparison, error) {
	if len(movieIDs) < compareMin || len(movieIDs) > compareMax {
		return nil, fmt.Errorf("%w: comparison requires %d to %d movies, got %d",
			ErrInvalidArgument, compareMin, compareMax, len(movieIDs))
	}

	movies, err := e.catalog.GetByIDs(ctx, movieIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve comparison movies: %w", err)
	}
	if len(movies) != len(movieIDs) {
		found := make(map[int64]bool, len(movies))
		for _, m := range movies {
			found[m.ID] = true
		}
		for _, id := range movieIDs {
			if !found[id] {
				return nil, fmt.Errorf("%w: movie %d", ErrNotFound, id)
			}
		}
	}

	// Preserve request order; GetByIDs does not guarantee it.
	byID := make(map[int64]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]models.Movie, len(movieIDs))
	for i, id := range movieIDs {
		ordered[i] = byID[id]
	}

	raw, err := e.completer.Complete(ctx, llm.BuildComparePrompt(ordered))
	if err != nil {
		return nil, fmt.Errorf("%w: comparison reasoning: %w", ErrUpstream, err)
	}

	text, winner, err := parseComparison(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return &models.Comparison{
		Movies:     ordered,
		Comparison: text,
		Winner:     winner,
	}, nil
}

func emptyResult(reasoning string) *models.RecommendResult {
	return &models.RecommendResult{
		Recommendations: []models.Recommendation{},
		Reasoning:       reasoning,
	}
}
