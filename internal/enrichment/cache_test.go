// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package enrichment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/models"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	db, err := database.Open(database.Config{Path: ":memory:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewCache(db, zerolog.Nop())
}

func testEnrichment(movieID int64) *models.Enrichment {
	return &models.Enrichment{
		MovieID:        movieID,
		Sentiment:      models.SentimentPositive,
		BudgetTier:     models.BudgetMedium,
		RevenueTier:    models.RevenueSuccess,
		Effectiveness:  70,
		TargetAudience: "fans of character studies",
	}
}

func TestCacheMissReturnsNotFound(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t)

	_, err := cache.Get(context.Background(), 999)
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestCacheUpsertThenGet(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t)
	ctx := context.Background()

	if err := cache.Upsert(ctx, testEnrichment(1)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := cache.Get(ctx, 1)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Sentiment != models.SentimentPositive || got.Effectiveness != 70 {
		t.Errorf("Get() = %+v", got)
	}
	if got.ComputedAt.IsZero() {
		t.Error("Get() returned zero ComputedAt")
	}
}

func TestCacheUpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t)
	ctx := context.Background()

	first := testEnrichment(2)
	first.ComputedAt = time.Now().Add(-time.Hour)
	if err := cache.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	second := testEnrichment(2)
	second.ComputedAt = time.Now()
	if err := cache.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := cache.Get(ctx, 2)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Sentiment != first.Sentiment || got.Effectiveness != first.Effectiveness {
		t.Errorf("field values changed across identical upserts: %+v", got)
	}
	if !got.ComputedAt.After(first.ComputedAt) {
		t.Errorf("ComputedAt = %s, want the later write's stamp", got.ComputedAt)
	}
}

func TestCacheGetBatch(t *testing.T) {
	t.Parallel()

	cache := newTestCache(t)
	ctx := context.Background()

	for _, id := range []int64{1, 3} {
		if err := cache.Upsert(ctx, testEnrichment(id)); err != nil {
			t.Fatalf("Upsert(%d) error = %v", id, err)
		}
	}

	got, err := cache.GetBatch(ctx, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("GetBatch() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetBatch() returned %d records, want 2", len(got))
	}
	if got[1] == nil || got[3] == nil || got[2] != nil {
		t.Errorf("GetBatch() = %+v", got)
	}

	empty, err := cache.GetBatch(ctx, nil)
	if err != nil {
		t.Fatalf("GetBatch(nil) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("GetBatch(nil) returned %d records", len(empty))
	}
}
