// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package vector

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/database"
)

// testVector builds a Dim-length vector whose first len(head) components are
// head and the rest are zero. Cosine distance then depends only on head.
func testVector(head ...float32) []float32 {
	vec := make([]float32, Dim)
	copy(vec, head)
	return vec
}

func newMemoryIndex(vectors map[int64][]float32) *Index {
	return &Index{
		logger:  zerolog.Nop(),
		vectors: vectors,
		built:   true,
	}
}

func TestSearchOrdersByDistance(t *testing.T) {
	t.Parallel()

	idx := newMemoryIndex(map[int64][]float32{
		1: testVector(1, 0),  // identical to query
		2: testVector(0, 1),  // orthogonal
		3: testVector(-1, 0), // opposite
	})

	hits, err := idx.Search(context.Background(), testVector(1, 0), 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("Search() returned %d hits, want 3", len(hits))
	}

	wantOrder := []int64{1, 2, 3}
	for i, want := range wantOrder {
		if hits[i].MovieID != want {
			t.Errorf("hits[%d].MovieID = %d, want %d", i, hits[i].MovieID, want)
		}
	}

	if hits[0].Distance > 1e-6 {
		t.Errorf("identical vector distance = %f, want ~0", hits[0].Distance)
	}
	if math.Abs(hits[1].Distance-1) > 1e-6 {
		t.Errorf("orthogonal vector distance = %f, want ~1", hits[1].Distance)
	}
	if math.Abs(hits[2].Distance-2) > 1e-6 {
		t.Errorf("opposite vector distance = %f, want ~2", hits[2].Distance)
	}
}

func TestSearchSimilarityMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		distance float64
		want     float64
	}{
		{name: "identical", distance: 0, want: 1},
		{name: "orthogonal", distance: 1, want: 0.5},
		{name: "opposite", distance: 2, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Hit{Distance: tt.distance}.Similarity()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSearchTruncatesToK(t *testing.T) {
	t.Parallel()

	idx := newMemoryIndex(map[int64][]float32{
		1: testVector(1, 0),
		2: testVector(1, 0.1),
		3: testVector(1, 0.2),
		4: testVector(1, 0.3),
	})

	hits, err := idx.Search(context.Background(), testVector(1, 0), 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("Search() returned %d hits, want 2", len(hits))
	}
	if hits[0].MovieID != 1 {
		t.Errorf("hits[0].MovieID = %d, want 1", hits[0].MovieID)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	t.Parallel()

	idx := newMemoryIndex(map[int64][]float32{})

	hits, err := idx.Search(context.Background(), testVector(1), 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("Search() on empty index returned %d hits, want 0", len(hits))
	}
}

func TestSearchNotBuilt(t *testing.T) {
	t.Parallel()

	idx := &Index{logger: zerolog.Nop(), vectors: make(map[int64][]float32)}

	_, err := idx.Search(context.Background(), testVector(1), 5)
	if !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Search() error = %v, want ErrNotBuilt", err)
	}
}

func TestSearchRejectsWrongDimension(t *testing.T) {
	t.Parallel()

	idx := newMemoryIndex(map[int64][]float32{})

	_, err := idx.Search(context.Background(), []float32{1, 2, 3}, 5)
	if !errors.Is(err, ErrDimension) {
		t.Errorf("Search() error = %v, want ErrDimension", err)
	}
}

func TestSearchZeroNormQuery(t *testing.T) {
	t.Parallel()

	idx := newMemoryIndex(map[int64][]float32{
		1: testVector(1, 0),
	})

	hits, err := idx.Search(context.Background(), make([]float32, Dim), 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Search() returned %d hits, want 1", len(hits))
	}
	if hits[0].Distance != 2 {
		t.Errorf("zero-norm query distance = %f, want 2", hits[0].Distance)
	}
}

func TestEncodeDecodeVector(t *testing.T) {
	t.Parallel()

	vec := testVector(0.25, -1.5, 3.125, math.MaxFloat32)
	got, err := decodeVector(encodeVector(vec))
	if err != nil {
		t.Fatalf("decodeVector() error = %v", err)
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Fatalf("round trip mismatch at %d: got %f, want %f", i, got[i], vec[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("decodeVector() accepted truncated blob")
	}
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	t.Parallel()

	idx := newMemoryIndex(map[int64][]float32{})

	err := idx.Upsert(context.Background(), 1, []float32{1, 2})
	if !errors.Is(err, ErrDimension) {
		t.Errorf("Upsert() error = %v, want ErrDimension", err)
	}
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	db, err := database.Open(database.Config{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}

	idx, err := Open(ctx, db, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !idx.Built() {
		t.Fatal("index not built after schema init")
	}

	if err := idx.Upsert(ctx, 7, testVector(1, 0)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close database: %v", err)
	}

	db, err = database.Open(database.Config{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	idx, err = Open(ctx, db, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	if idx.Count() != 1 {
		t.Fatalf("Count() = %d after reopen, want 1", idx.Count())
	}

	hits, err := idx.Search(ctx, testVector(1, 0), 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 1 || hits[0].MovieID != 7 {
		t.Fatalf("Search() = %+v, want movie 7", hits)
	}
	if hits[0].Similarity() < 0.999 {
		t.Errorf("Similarity() = %f, want ~1", hits[0].Similarity())
	}
}
