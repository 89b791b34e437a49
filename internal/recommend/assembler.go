// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/models"
	"github.com/cinemind/cinemind/internal/vector"
)

// Catalog is the read-only movie store consumed by the pipeline.
type Catalog interface {
	GetByID(ctx context.Context, id int64) (models.Movie, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Movie, error)
	ListSample(ctx context.Context, limit int) ([]models.Movie, error)
	ListUserHistory(ctx context.Context, userID int64) ([]models.RatedMovie, error)
}

// EnrichmentStore is the derived-attribute cache consumed by the pipeline.
type EnrichmentStore interface {
	Get(ctx context.Context, movieID int64) (*models.Enrichment, error)
	GetBatch(ctx context.Context, movieIDs []int64) (map[int64]*models.Enrichment, error)
	Upsert(ctx context.Context, e *models.Enrichment) error
}

// Assembler joins retrieval hits with catalog rows and cached enrichment.
type Assembler struct {
	catalog    Catalog
	enrichment EnrichmentStore
	logger     zerolog.Logger
}

// NewAssembler creates a candidate assembler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewAssembler(catalog Catalog, enrichment EnrichmentStore, logger zerolog.Logger) *Assembler {
	return &Assembler{
		catalog:    catalog,
		enrichment: enrichment,
		logger:     logger.With().Str("component", "assembler").Logger(),
	}
}

// Assemble resolves hits against the catalog, preserving hit order. Ids that
// no longer resolve to a catalog row are dropped silently; the catalog is
// the source of truth and a stale index entry must never surface a null
// movie. Cached enrichment is attached where present, absence stays nil.
func (a *Assembler) Assemble(ctx context.Context, hits []vector.Hit) ([]models.Candidate, error) {
	if len(hits) == 0 {
		return []models.Candidate{}, nil
	}

	ids := make([]int64, len(hits))
	for i, hit := range hits {
		ids[i] = hit.MovieID
	}

	movies, err := a.catalog.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve candidates: %w", err)
	}
	byID := make(map[int64]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	enriched, err := a.enrichment.GetBatch(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cached enrichment: %w", err)
	}

	candidates := make([]models.Candidate, 0, len(hits))
	for _, hit := range hits {
		movie, ok := byID[hit.MovieID]
		if !ok {
			a.logger.Debug().
				Int64("movie_id", hit.MovieID).
				Msg("dropped stale index entry with no catalog row")
			continue
		}
		candidates = append(candidates, models.Candidate{
			Movie:      movie,
			Similarity: hit.Similarity(),
			Enrichment: enriched[hit.MovieID],
		})
	}
	return candidates, nil
}
