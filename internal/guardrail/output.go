// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package guardrail

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/metrics"
	"github.com/cinemind/cinemind/internal/models"
)

// Output validation limits.
const (
	// MaxReasonLen caps the per-recommendation match reason.
	MaxReasonLen = 300

	// MaxReasoningLen caps the overall reasoning narrative.
	MaxReasoningLen = 1000

	// MaxSummaryLen caps the preference summary text.
	MaxSummaryLen = 600

	// MaxGenres caps the favorite genre list in a preference summary.
	MaxGenres = 10

	// MaxAudienceLen caps the enrichment target audience text.
	MaxAudienceLen = 200
)

// ValidationError reports why a model payload was rejected.
type ValidationError struct {
	// Kind is a short machine label (e.g. "empty_recommendations"),
	// used as the metric label.
	Kind string

	// Detail is a human-readable explanation for logs.
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("output validation failed (%s): %s", e.Kind, e.Detail)
}

// Output validates model payloads before they reach users.
type Output struct {
	logger zerolog.Logger
}

// NewOutput creates the output guardrail.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOutput(logger zerolog.Logger) *Output {
	return &Output{
		logger: logger.With().Str("component", "guardrail_output").Logger(),
	}
}

// ValidateRecommendations salvages a recommendation list. Entries naming
// movie ids outside validIDs are dropped, match scores are clamped to
// [0,100] with non-finite values zeroed, and over-long reasons are
// truncated. Only when no entry survives does validation fail.
func (g *Output) ValidateRecommendations(recs []models.Recommendation, validIDs map[int64]bool) ([]models.Recommendation, error) {
	survivors := make([]models.Recommendation, 0, len(recs))
	for _, rec := range recs {
		if !validIDs[rec.MovieID] {
			metrics.OutputValidationFailures.WithLabelValues("foreign_movie_id").Inc()
			g.logger.Warn().
				Int64("movie_id", rec.MovieID).
				Msg("dropped recommendation for movie outside candidate set")
			continue
		}

		rec.MatchScore = clampScore(rec.MatchScore)
		rec.MatchReason = Truncate(rec.MatchReason, MaxReasonLen)
		if rec.Enrichment != nil {
			if err := g.ValidateEnrichment(rec.Enrichment); err != nil {
				g.logger.Warn().
					Int64("movie_id", rec.MovieID).
					Err(err).
					Msg("dropped invalid embedded enrichment, keeping recommendation")
				rec.Enrichment = nil
			}
		}
		survivors = append(survivors, rec)
	}

	if len(survivors) == 0 {
		metrics.OutputValidationFailures.WithLabelValues("empty_recommendations").Inc()
		return nil, &ValidationError{
			Kind:   "empty_recommendations",
			Detail: fmt.Sprintf("no valid entries among %d returned", len(recs)),
		}
	}
	return survivors, nil
}

// ValidatePreferences checks a preference summary. Unlike recommendations
// there is nothing to salvage: a summary with bad parts is rejected whole.
func (g *Output) ValidatePreferences(p *models.PreferenceSummary) error {
	if strings.TrimSpace(p.Summary) == "" {
		metrics.OutputValidationFailures.WithLabelValues("empty_summary").Inc()
		return &ValidationError{Kind: "empty_summary", Detail: "summary text is empty"}
	}
	if len(p.Summary) > MaxSummaryLen {
		metrics.OutputValidationFailures.WithLabelValues("summary_too_long").Inc()
		return &ValidationError{
			Kind:   "summary_too_long",
			Detail: fmt.Sprintf("summary is %d chars, max %d", len(p.Summary), MaxSummaryLen),
		}
	}
	if len(p.FavoriteGenres) > MaxGenres {
		metrics.OutputValidationFailures.WithLabelValues("too_many_genres").Inc()
		return &ValidationError{
			Kind:   "too_many_genres",
			Detail: fmt.Sprintf("%d genres, max %d", len(p.FavoriteGenres), MaxGenres),
		}
	}
	for _, genre := range p.FavoriteGenres {
		if strings.TrimSpace(genre) == "" {
			metrics.OutputValidationFailures.WithLabelValues("empty_genre").Inc()
			return &ValidationError{Kind: "empty_genre", Detail: "blank genre in favorites"}
		}
	}
	return nil
}

// ValidateEnrichment checks computed enrichment attributes. Enum and range
// violations and an empty target audience reject the whole record; an
// over-long audience string is merely truncated since it carries no
// structured meaning.
func (g *Output) ValidateEnrichment(e *models.Enrichment) error {
	if !e.Sentiment.Valid() {
		metrics.OutputValidationFailures.WithLabelValues("invalid_sentiment").Inc()
		return &ValidationError{
			Kind:   "invalid_sentiment",
			Detail: fmt.Sprintf("unknown sentiment %q", e.Sentiment),
		}
	}
	if !e.BudgetTier.Valid() {
		metrics.OutputValidationFailures.WithLabelValues("invalid_budget_tier").Inc()
		return &ValidationError{
			Kind:   "invalid_budget_tier",
			Detail: fmt.Sprintf("unknown budget tier %q", e.BudgetTier),
		}
	}
	if !e.RevenueTier.Valid() {
		metrics.OutputValidationFailures.WithLabelValues("invalid_revenue_tier").Inc()
		return &ValidationError{
			Kind:   "invalid_revenue_tier",
			Detail: fmt.Sprintf("unknown revenue tier %q", e.RevenueTier),
		}
	}
	if e.Effectiveness < 0 || e.Effectiveness > 100 {
		metrics.OutputValidationFailures.WithLabelValues("effectiveness_range").Inc()
		return &ValidationError{
			Kind:   "effectiveness_range",
			Detail: fmt.Sprintf("effectiveness %d outside [0,100]", e.Effectiveness),
		}
	}
	if strings.TrimSpace(e.TargetAudience) == "" {
		metrics.OutputValidationFailures.WithLabelValues("empty_target_audience").Inc()
		return &ValidationError{
			Kind:   "empty_target_audience",
			Detail: "target audience text is empty",
		}
	}

	if len(e.TargetAudience) > MaxAudienceLen {
		g.logger.Warn().
			Int64("movie_id", e.MovieID).
			Int("len", len(e.TargetAudience)).
			Msg("target audience truncated")
		e.TargetAudience = Truncate(e.TargetAudience, MaxAudienceLen)
	}
	return nil
}

// Truncate shortens s to at most max bytes, cutting at a rune boundary.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

// clampScore normalizes a match score to [0,100]. NaN and infinities
// become zero rather than leaking into JSON output.
func clampScore(score float64) float64 {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
