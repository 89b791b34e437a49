// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package database

import (
	"context"
	"fmt"
	"time"
)

// seedMovie is one development catalog row.
type seedMovie struct {
	id       int64
	title    string
	overview string
	genres   string
	budget   int64
	revenue  int64
	runtime  int
	year     int
	voteAvg  float64
	voteCnt  int
}

// sampleMovies is a small development catalog. Embeddings for these rows are
// produced by the external batch job, not here.
var sampleMovies = []seedMovie{
	{1, "Starfall Odyssey", "A deep-space salvage crew discovers a derelict colony ship drifting toward a dying star.", "science fiction,adventure", 140_000_000, 410_000_000, 138, 2019, 7.6, 9421},
	{2, "The Last Projectionist", "An aging cinema owner fights to keep his single-screen theater alive in a small coastal town.", "drama", 4_000_000, 11_000_000, 104, 2014, 7.9, 2113},
	{3, "Midnight Circuit", "A getaway driver takes one final job that unravels into a night-long chase across the city.", "action,thriller,crime", 38_000_000, 96_000_000, 111, 2021, 7.1, 6870},
	{4, "Garden of Glass", "Two botanists racing to save a dying alpine ecosystem uncover a decades-old secret.", "drama,romance", 9_000_000, 5_200_000, 118, 2016, 6.4, 1042},
	{5, "Captain Meteor and the Moon Pirates", "A washed-up superhero must team up with his estranged daughter to stop lunar bandits.", "comedy,family,adventure", 95_000_000, 312_000_000, 101, 2022, 6.8, 5233},
	{6, "Hollow Signal", "A radio astronomer intercepts a transmission that predicts disasters before they happen.", "thriller,mystery,science fiction", 22_000_000, 87_000_000, 124, 2018, 7.3, 4401},
	{7, "The Winter Ledger", "An accountant in 1920s Chicago is pulled into laundering money for a crime syndicate.", "crime,drama", 30_000_000, 18_000_000, 142, 2011, 7.7, 3310},
	{8, "Paper Lanterns", "A street photographer in Hanoi documents the last summer of a vanishing neighborhood.", "drama,documentary", 1_200_000, 3_800_000, 92, 2020, 8.1, 887},
}

// seedRating is one development rating row.
type seedRating struct {
	userID  int64
	movieID int64
	rating  float64
	daysAgo int
}

var sampleRatings = []seedRating{
	{1, 1, 4.5, 40}, {1, 3, 4.0, 33}, {1, 5, 3.5, 21}, {1, 6, 5.0, 12},
	{2, 2, 5.0, 90}, {2, 4, 4.0, 70}, {2, 7, 4.5, 55}, {2, 8, 5.0, 30},
	{3, 1, 3.0, 10}, {3, 5, 4.5, 8}, {3, 3, 4.0, 3},
}

// Seed loads the development catalog and rating history. It is a no-op when
// the movies table already has rows.
func (db *DB) Seed(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM movies`).Scan(&count); err != nil {
		return fmt.Errorf("count movies: %w", err)
	}
	if count > 0 {
		db.logger.Debug().Int("movies", count).Msg("catalog already populated, skipping seed")
		return nil
	}

	for _, m := range sampleMovies {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO movies (id, title, overview, genres, budget, revenue,
			 runtime_minutes, release_year, vote_average, vote_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.id, m.title, m.overview, m.genres, m.budget, m.revenue,
			m.runtime, m.year, m.voteAvg, m.voteCnt)
		if err != nil {
			return fmt.Errorf("seed movie %d: %w", m.id, err)
		}
	}

	now := time.Now()
	for _, r := range sampleRatings {
		_, err := db.conn.ExecContext(ctx,
			`INSERT INTO user_ratings (user_id, movie_id, rating, rated_at)
			 VALUES (?, ?, ?, ?)`,
			r.userID, r.movieID, r.rating, now.AddDate(0, 0, -r.daysAgo))
		if err != nil {
			return fmt.Errorf("seed rating user=%d movie=%d: %w", r.userID, r.movieID, err)
		}
	}

	db.logger.Info().
		Int("movies", len(sampleMovies)).
		Int("ratings", len(sampleRatings)).
		Msg("seeded development catalog")
	return nil
}
