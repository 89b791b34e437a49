// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package catalog

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/database"
)

// newSeededStore opens an in-memory database, seeds the sample catalog, and
// returns a store over it.
func newSeededStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Open(database.Config{Path: ":memory:"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Seed(context.Background()); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return NewStore(db, zerolog.Nop())
}

func TestGetByID(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	movie, err := store.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID(1) error = %v", err)
	}
	if movie.Title != "Starfall Odyssey" {
		t.Errorf("GetByID(1).Title = %q", movie.Title)
	}
	if len(movie.Genres) == 0 {
		t.Error("GetByID(1) returned no genres")
	}

	if _, err := store.GetByID(ctx, 999); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("GetByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestGetByIDsOmitsMissing(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)

	movies, err := store.GetByIDs(context.Background(), []int64{2, 999, 4})
	if err != nil {
		t.Fatalf("GetByIDs() error = %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("GetByIDs() returned %d movies, want 2", len(movies))
	}
	for _, m := range movies {
		if m.ID != 2 && m.ID != 4 {
			t.Errorf("GetByIDs() returned unexpected movie %d", m.ID)
		}
	}
}

func TestListSampleOrdering(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)

	movies, err := store.ListSample(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListSample() error = %v", err)
	}
	if len(movies) != 3 {
		t.Fatalf("ListSample(3) returned %d movies", len(movies))
	}
	if movies[0].Title != "Starfall Odyssey" {
		t.Errorf("ListSample()[0].Title = %q, want most-rated movie first", movies[0].Title)
	}
	for i := 1; i < len(movies); i++ {
		if movies[i].VoteCount > movies[i-1].VoteCount {
			t.Errorf("ListSample() not ordered by vote count: %d after %d",
				movies[i].VoteCount, movies[i-1].VoteCount)
		}
	}

	empty, err := store.ListSample(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListSample(0) error = %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListSample(0) returned %d movies", len(empty))
	}
}

func TestListUserHistory(t *testing.T) {
	t.Parallel()

	store := newSeededStore(t)
	ctx := context.Background()

	history, err := store.ListUserHistory(ctx, 1)
	if err != nil {
		t.Fatalf("ListUserHistory(1) error = %v", err)
	}
	if len(history) == 0 {
		t.Fatal("ListUserHistory(1) returned no ratings")
	}
	for i := 1; i < len(history); i++ {
		if history[i].Rating > history[i-1].Rating {
			t.Errorf("history not ordered by rating: %.1f after %.1f",
				history[i].Rating, history[i-1].Rating)
		}
	}

	none, err := store.ListUserHistory(ctx, 999)
	if err != nil {
		t.Fatalf("ListUserHistory(999) error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ListUserHistory(999) returned %d ratings", len(none))
	}
}

func TestSplitGenres(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"single", "drama", []string{"drama"}},
		{"multiple", "action,thriller,crime", []string{"action", "thriller", "crime"}},
		{"whitespace", " drama , romance ", []string{"drama", "romance"}},
		{"trailing comma", "comedy,", []string{"comedy"}},
		{"only commas", ",,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := splitGenres(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitGenres(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
