// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package catalog provides read-only access to the movie catalog and user
// rating history. The catalog is reference data: the pipeline never writes
// to it.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/models"
)

// Store reads movies and ratings from the shared database handle.
type Store struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewStore creates a catalog store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(db *database.DB, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With().Str("component", "catalog").Logger(),
	}
}

const movieColumns = `id, title, overview, genres, budget, revenue,
	runtime_minutes, release_year, vote_average, vote_count`

// GetByID returns a movie by id, or database.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int64) (models.Movie, error) {
	row := s.db.Conn().QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)

	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, database.ErrNotFound
	}
	if err != nil {
		return models.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return m, nil
}

// GetByIDs returns the movies that exist for the given ids. Missing ids are
// omitted, not errors; the caller decides whether absence matters.
func (s *Store) GetByIDs(ctx context.Context, ids []int64) ([]models.Movie, error) {
	if len(ids) == 0 {
		return []models.Movie{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("get movies by ids: %w", err)
	}
	defer func() { _ = rows.Close() }()

	movies := make([]models.Movie, 0, len(ids))
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ListSample returns up to limit movies ordered by popularity (rating count
// descending). Used as the degraded candidate source when retrieval is
// unavailable.
func (s *Store) ListSample(ctx context.Context, limit int) ([]models.Movie, error) {
	if limit <= 0 {
		return []models.Movie{}, nil
	}

	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies ORDER BY vote_count DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sample: %w", err)
	}
	defer func() { _ = rows.Close() }()

	movies := make([]models.Movie, 0, limit)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ListUserHistory returns a user's rating history, highest rating first.
// An empty slice means the user has no ratings (or does not exist; the
// catalog does not track users independently of their ratings).
func (s *Store) ListUserHistory(ctx context.Context, userID int64) ([]models.RatedMovie, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT m.id, m.title, m.overview, m.genres, m.budget, m.revenue,
		        m.runtime_minutes, m.release_year, m.vote_average, m.vote_count,
		        r.rating, r.rated_at
		 FROM user_ratings r
		 JOIN movies m ON m.id = r.movie_id
		 WHERE r.user_id = ?
		 ORDER BY r.rating DESC, r.rated_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	history := make([]models.RatedMovie, 0, 16)
	for rows.Next() {
		var (
			m      models.Movie
			genres string
			rated  models.RatedMovie
		)
		err := rows.Scan(&m.ID, &m.Title, &m.Overview, &genres, &m.Budget,
			&m.Revenue, &m.RuntimeMinutes, &m.ReleaseYear, &m.VoteAverage,
			&m.VoteCount, &rated.Rating, &rated.RatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		m.Genres = splitGenres(genres)
		rated.Movie = m
		history = append(history, rated)
	}
	return history, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for scanMovie.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (models.Movie, error) {
	var (
		m      models.Movie
		genres string
	)
	err := row.Scan(&m.ID, &m.Title, &m.Overview, &genres, &m.Budget,
		&m.Revenue, &m.RuntimeMinutes, &m.ReleaseYear, &m.VoteAverage, &m.VoteCount)
	if err != nil {
		return models.Movie{}, err
	}
	m.Genres = splitGenres(genres)
	return m, nil
}

// splitGenres splits the comma-separated genres column.
func splitGenres(genres string) []string {
	if genres == "" {
		return []string{}
	}
	parts := strings.Split(genres, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
