// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package models

// Recommendation is a single ranked entry returned to a caller. Every movie
// id is guaranteed to come from the candidate set presented to the reasoning
// call, and MatchScore is always in [0,100].
type Recommendation struct {
	// MovieID is the recommended catalog item.
	MovieID int64 `json:"movie_id"`

	// Title is the movie title, resolved from the catalog.
	Title string `json:"title"`

	// MatchScore is how well the movie matches the query, in [0,100].
	MatchScore float64 `json:"match_score"`

	// MatchReason is a short explanation for this entry.
	MatchReason string `json:"match_reason"`

	// Enrichment carries per-movie derived attributes when the reasoning
	// response included a valid enrichment object.
	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// RecommendResult is the caller-facing result of the recommendation flow.
type RecommendResult struct {
	// Recommendations is the ranked list; empty for blocked or no-match
	// queries, with Reasoning explaining why.
	Recommendations []Recommendation `json:"recommendations"`

	// Reasoning is the overall free-text explanation.
	Reasoning string `json:"reasoning"`

	// EnhancedQuery is the expanded query used for retrieval, when the
	// enhancer rewrote the original.
	EnhancedQuery string `json:"enhanced_query,omitempty"`
}

// PreferenceSummary is the caller-facing result of preference summarization.
// Validation of this type is all-or-nothing: it is a single coherent claim
// about a user, not a collection of independent facts.
type PreferenceSummary struct {
	// Summary is a prose description of the user's taste.
	Summary string `json:"summary"`

	// FavoriteGenres lists the user's preferred genres.
	FavoriteGenres []string `json:"favorite_genres"`

	// LikesBigBudget reports whether the user gravitates to big productions.
	LikesBigBudget bool `json:"likes_big_budget"`

	// PrefersClassics reports whether the user favors older releases.
	PrefersClassics bool `json:"prefers_classics"`

	// TopRated is the user's highest-rated movies, from the catalog.
	TopRated []RatedMovie `json:"top_rated"`
}

// Comparison is the caller-facing result of a movie comparison. Its free-text
// and optional-winner fields intentionally skip output-guardrail validation;
// this is an accepted scope reduction, not an oversight.
type Comparison struct {
	// Movies are the compared catalog items, in request order.
	Movies []Movie `json:"movies"`

	// Comparison is the free-text comparison.
	Comparison string `json:"comparison"`

	// Winner is the id of the preferred movie, if the reasoning call
	// produced one from the compared set.
	Winner *int64 `json:"winner,omitempty"`
}
