// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package enrichment persists computed movie enrichment attributes.
//
// Enrichment is expensive to compute (it requires a model call), so results
// are cached permanently keyed by movie id. Reads that miss return
// database.ErrNotFound; callers decide whether to compute and backfill.
package enrichment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/metrics"
	"github.com/cinemind/cinemind/internal/models"
)

// Cache is the movie enrichment store backed by the shared database.
type Cache struct {
	db     *database.DB
	logger zerolog.Logger
}

// NewCache creates an enrichment cache over the shared database handle.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCache(db *database.DB, logger zerolog.Logger) *Cache {
	return &Cache{
		db:     db,
		logger: logger.With().Str("component", "enrichment").Logger(),
	}
}

// Get returns the cached enrichment for a movie, or database.ErrNotFound on
// a miss.
func (c *Cache) Get(ctx context.Context, movieID int64) (*models.Enrichment, error) {
	var e models.Enrichment
	err := c.db.Conn().QueryRowContext(ctx,
		`SELECT movie_id, sentiment, budget_tier, revenue_tier, effectiveness, target_audience, computed_at
		 FROM movie_enrichment WHERE movie_id = ?`, movieID,
	).Scan(&e.MovieID, &e.Sentiment, &e.BudgetTier, &e.RevenueTier,
		&e.Effectiveness, &e.TargetAudience, &e.ComputedAt)
	if errors.Is(err, sql.ErrNoRows) {
		metrics.EnrichmentCacheMisses.Inc()
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query enrichment for movie %d: %w", movieID, err)
	}

	metrics.EnrichmentCacheHits.Inc()
	return &e, nil
}

// GetBatch returns cached enrichment for the given movie ids, keyed by id.
// Missing ids are simply absent from the result.
func (c *Cache) GetBatch(ctx context.Context, movieIDs []int64) (map[int64]*models.Enrichment, error) {
	result := make(map[int64]*models.Enrichment, len(movieIDs))
	if len(movieIDs) == 0 {
		return result, nil
	}

	query := `SELECT movie_id, sentiment, budget_tier, revenue_tier, effectiveness, target_audience, computed_at
		 FROM movie_enrichment WHERE movie_id IN (`
	args := make([]any, len(movieIDs))
	for i, id := range movieIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args[i] = id
	}
	query += ")"

	rows, err := c.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query enrichment batch: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var e models.Enrichment
		if err := rows.Scan(&e.MovieID, &e.Sentiment, &e.BudgetTier, &e.RevenueTier,
			&e.Effectiveness, &e.TargetAudience, &e.ComputedAt); err != nil {
			return nil, fmt.Errorf("scan enrichment: %w", err)
		}
		result[e.MovieID] = &e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrichment batch: %w", err)
	}

	hits := len(result)
	metrics.EnrichmentCacheHits.Add(float64(hits))
	metrics.EnrichmentCacheMisses.Add(float64(len(movieIDs) - hits))
	return result, nil
}

// Upsert stores or replaces the enrichment for its movie id.
func (c *Cache) Upsert(ctx context.Context, e *models.Enrichment) error {
	computedAt := e.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now()
	}

	_, err := c.db.Conn().ExecContext(ctx,
		`INSERT INTO movie_enrichment
		   (movie_id, sentiment, budget_tier, revenue_tier, effectiveness, target_audience, computed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (movie_id) DO UPDATE SET
		   sentiment = excluded.sentiment,
		   budget_tier = excluded.budget_tier,
		   revenue_tier = excluded.revenue_tier,
		   effectiveness = excluded.effectiveness,
		   target_audience = excluded.target_audience,
		   computed_at = excluded.computed_at`,
		e.MovieID, string(e.Sentiment), string(e.BudgetTier), string(e.RevenueTier),
		e.Effectiveness, e.TargetAudience, computedAt)
	if err != nil {
		return fmt.Errorf("upsert enrichment for movie %d: %w", e.MovieID, err)
	}

	c.logger.Debug().Int64("movie_id", e.MovieID).Msg("enrichment cached")
	return nil
}
