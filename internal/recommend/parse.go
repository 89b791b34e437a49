// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/cinemind/cinemind/internal/models"
)

// Completions are parsed as untyped bytes and every shape assumption is
// checked explicitly. Recommendation entries are decoded one by one so a
// single malformed entry drops that entry, not the batch; preference and
// comparison payloads decode strictly because they are all-or-nothing.

type enrichmentPayload struct {
	Sentiment      string  `json:"sentiment"`
	BudgetTier     string  `json:"budget_tier"`
	RevenueTier    string  `json:"revenue_tier"`
	Effectiveness  float64 `json:"effectiveness"`
	TargetAudience string  `json:"target_audience"`
}

// toModel converts the raw payload. Effectiveness is rounded to an integer;
// range and enum checks belong to the output guardrail.
func (p *enrichmentPayload) toModel(movieID int64) *models.Enrichment {
	return &models.Enrichment{
		MovieID:        movieID,
		Sentiment:      models.Sentiment(p.Sentiment),
		BudgetTier:     models.BudgetTier(p.BudgetTier),
		RevenueTier:    models.RevenueTier(p.RevenueTier),
		Effectiveness:  int(math.Round(p.Effectiveness)),
		TargetAudience: p.TargetAudience,
	}
}

type recommendationEntry struct {
	MovieID     *float64        `json:"movie_id"`
	MatchScore  json.RawMessage `json:"match_score"`
	MatchReason json.RawMessage `json:"match_reason"`
	Enrichment  json.RawMessage `json:"enrichment"`
}

// parseRecommendations decodes a ranking completion. Only a missing or
// non-numeric movie id drops an entry; mistyped scores and reasons are
// coerced, and an undecodable embedded enrichment drops just that sub-field.
// The reasoning field tolerates a missing or non-string value by
// substituting a placeholder.
func parseRecommendations(raw string) ([]models.Recommendation, string, error) {
	var envelope struct {
		Recommendations []json.RawMessage `json:"recommendations"`
		Reasoning       json.RawMessage   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, "", fmt.Errorf("decode recommendation response: %w", err)
	}
	if envelope.Recommendations == nil {
		return nil, "", fmt.Errorf("recommendation response missing recommendations list")
	}

	recs := make([]models.Recommendation, 0, len(envelope.Recommendations))
	for _, rawEntry := range envelope.Recommendations {
		var entry recommendationEntry
		if err := json.Unmarshal(rawEntry, &entry); err != nil || entry.MovieID == nil {
			continue
		}
		rec := models.Recommendation{
			MovieID:     int64(*entry.MovieID),
			MatchScore:  coerceScore(entry.MatchScore),
			MatchReason: coerceText(entry.MatchReason),
		}
		if len(entry.Enrichment) > 0 {
			var embedded enrichmentPayload
			if err := json.Unmarshal(entry.Enrichment, &embedded); err == nil {
				rec.Enrichment = embedded.toModel(rec.MovieID)
			}
		}
		recs = append(recs, rec)
	}

	reasoning := reasoningPlaceholder
	if len(envelope.Reasoning) > 0 {
		var s string
		if err := json.Unmarshal(envelope.Reasoning, &s); err == nil && s != "" {
			reasoning = s
		}
	}
	return recs, reasoning, nil
}

// coerceScore extracts a numeric match score, tolerating quoted numbers.
// Anything else maps to zero; range clamping belongs to the output guardrail.
func coerceScore(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil &&
			!math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
	}
	return 0
}

// coerceText extracts a string, stringifying non-string values rather than
// dropping the entry; truncation belongs to the output guardrail.
func coerceText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// parsePreferences decodes a preference completion. Every field is required;
// pointer fields distinguish "absent" from zero values.
func parsePreferences(raw string) (*models.PreferenceSummary, error) {
	var payload struct {
		Summary         *string   `json:"summary"`
		FavoriteGenres  *[]string `json:"favorite_genres"`
		LikesBigBudget  *bool     `json:"likes_big_budget"`
		PrefersClassics *bool     `json:"prefers_classics"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode preference response: %w", err)
	}
	if payload.Summary == nil || payload.FavoriteGenres == nil ||
		payload.LikesBigBudget == nil || payload.PrefersClassics == nil {
		return nil, fmt.Errorf("preference response missing required fields")
	}

	return &models.PreferenceSummary{
		Summary:         *payload.Summary,
		FavoriteGenres:  *payload.FavoriteGenres,
		LikesBigBudget:  *payload.LikesBigBudget,
		PrefersClassics: *payload.PrefersClassics,
	}, nil
}

// parseComparison decodes a comparison completion. The winner is optional.
func parseComparison(raw string) (string, *int64, error) {
	var payload struct {
		Comparison *string `json:"comparison"`
		Winner     *int64  `json:"winner"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", nil, fmt.Errorf("decode comparison response: %w", err)
	}
	if payload.Comparison == nil || *payload.Comparison == "" {
		return "", nil, fmt.Errorf("comparison response missing comparison text")
	}
	return *payload.Comparison, payload.Winner, nil
}

// parseEnrichment decodes an enrichment completion for the backfill worker.
func parseEnrichment(raw string, movieID int64) (*models.Enrichment, error) {
	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("decode enrichment response: %w", err)
	}
	if payload.TargetAudience == "" {
		return nil, fmt.Errorf("enrichment response missing target audience")
	}
	return payload.toModel(movieID), nil
}
