// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package models

import "time"

// Movie is an immutable catalog item. It is owned by the catalog store and
// read-only to the recommendation pipeline.
type Movie struct {
	// ID is the unique catalog identifier.
	ID int64 `json:"id"`

	// Title is the movie title.
	Title string `json:"title"`

	// Overview is the descriptive text used for embedding generation.
	Overview string `json:"overview"`

	// Genres is a slice of genre names.
	Genres []string `json:"genres"`

	// Budget is the production budget in US dollars.
	Budget int64 `json:"budget,omitempty"`

	// Revenue is the worldwide gross in US dollars.
	Revenue int64 `json:"revenue,omitempty"`

	// RuntimeMinutes is the running time in minutes.
	RuntimeMinutes int `json:"runtime_minutes,omitempty"`

	// ReleaseYear is the year of first theatrical release.
	ReleaseYear int `json:"release_year,omitempty"`

	// VoteAverage is the aggregate user rating (0-10).
	VoteAverage float64 `json:"vote_average,omitempty"`

	// VoteCount is the number of ratings contributing to VoteAverage.
	VoteCount int `json:"vote_count,omitempty"`
}

// RatedMovie is a single entry in a user's rating history. The catalog item
// is embedded so its fields are addressable directly on the entry.
type RatedMovie struct {
	Movie `json:"movie"`

	// Rating is the user's rating (0.5-5.0).
	Rating float64 `json:"rating"`

	// RatedAt is when the rating was recorded.
	RatedAt time.Time `json:"rated_at"`
}

// Candidate is a transient, request-scoped join of a catalog movie with its
// retrieval score and any cached enrichment. A nil Enrichment means the movie
// has not been enriched yet; the pipeline never fabricates attributes.
type Candidate struct {
	Movie `json:"movie"`

	// Similarity is the retrieval similarity in [0,1], mapped from cosine
	// distance as 1 - distance/2.
	Similarity float64 `json:"similarity"`

	// Enrichment is the cached derived attributes, if present.
	Enrichment *Enrichment `json:"enrichment,omitempty"`
}
