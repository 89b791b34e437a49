// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/metrics"
)

// Dim is the fixed embedding dimension. Every stored and queried vector must
// have exactly this length.
const Dim = 1536

var (
	// ErrNotBuilt indicates the embeddings table does not exist yet.
	ErrNotBuilt = errors.New("vector index not built")

	// ErrDimension indicates a vector of the wrong length.
	ErrDimension = fmt.Errorf("vector must have dimension %d", Dim)
)

// Hit is a single nearest-neighbor result.
type Hit struct {
	// MovieID is the catalog item the vector belongs to.
	MovieID int64

	// Distance is the cosine distance in [0,2]; lower is closer.
	Distance float64
}

// Similarity returns the hit's similarity in [0,1].
func (h Hit) Similarity() float64 {
	return 1 - h.Distance/2
}

// Index is the persistent cosine nearest-neighbor index. It is safe for
// concurrent use; upserts and searches may interleave freely.
type Index struct {
	db     *database.DB
	logger zerolog.Logger

	mu      sync.RWMutex
	vectors map[int64][]float32
	built   bool
}

// Open loads the index from the shared database handle. When the embeddings
// table does not exist the index opens in the unbuilt state rather than
// failing, so the caller can distinguish "no index yet" from an empty one.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, db *database.DB, logger zerolog.Logger) (*Index, error) {
	idx := &Index{
		db:      db,
		logger:  logger.With().Str("component", "vector").Logger(),
		vectors: make(map[int64][]float32),
	}

	var tableCount int
	err := db.Conn().QueryRowContext(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name = 'movie_embeddings'`,
	).Scan(&tableCount)
	if err != nil {
		return nil, fmt.Errorf("check embeddings table: %w", err)
	}
	if tableCount == 0 {
		idx.logger.Warn().Msg("embeddings table absent, index not built")
		return idx, nil
	}
	idx.built = true

	rows, err := db.Conn().QueryContext(ctx,
		`SELECT movie_id, embedding FROM movie_embeddings`)
	if err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id   int64
			blob []byte
		)
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, fmt.Errorf("scan embedding: %w", err)
		}
		vec, err := decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("decode embedding for movie %d: %w", id, err)
		}
		idx.vectors[id] = vec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate embeddings: %w", err)
	}

	idx.logger.Info().Int("vectors", len(idx.vectors)).Msg("vector index loaded")
	return idx, nil
}

// Built reports whether the embeddings table exists.
func (idx *Index) Built() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.built
}

// Count returns the number of indexed vectors.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Upsert stores or replaces the vector for a movie id. Re-embedding replaces
// the prior vector; vectors are never mutated in place.
func (idx *Index) Upsert(ctx context.Context, movieID int64, vec []float32) error {
	if len(vec) != Dim {
		return ErrDimension
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.built {
		return ErrNotBuilt
	}

	_, err := idx.db.Conn().ExecContext(ctx,
		`INSERT INTO movie_embeddings (movie_id, embedding, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (movie_id) DO UPDATE SET
		   embedding = excluded.embedding,
		   updated_at = excluded.updated_at`,
		movieID, encodeVector(vec), time.Now())
	if err != nil {
		return fmt.Errorf("persist embedding for movie %d: %w", movieID, err)
	}

	stored := make([]float32, Dim)
	copy(stored, vec)
	idx.vectors[movieID] = stored
	return nil
}

// Search returns the k nearest vectors by cosine distance, closest first.
// Searching an empty index returns an empty slice; searching an unbuilt
// index returns ErrNotBuilt.
func (idx *Index) Search(_ context.Context, vec []float32, k int) ([]Hit, error) {
	if len(vec) != Dim {
		return nil, ErrDimension
	}

	start := time.Now()
	defer func() {
		metrics.VectorSearchDuration.Observe(time.Since(start).Seconds())
	}()

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.built {
		return nil, ErrNotBuilt
	}
	if len(idx.vectors) == 0 || k <= 0 {
		return []Hit{}, nil
	}

	hits := make([]Hit, 0, len(idx.vectors))
	queryNorm := norm(vec)
	for id, stored := range idx.vectors {
		hits = append(hits, Hit{MovieID: id, Distance: cosineDistance(vec, stored, queryNorm)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].MovieID < hits[j].MovieID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// cosineDistance computes 1 - cosine similarity. Zero-norm vectors are
// treated as maximally distant rather than producing NaN.
func cosineDistance(a, b []float32, aNorm float64) float64 {
	bNorm := norm(b)
	if aNorm == 0 || bNorm == 0 {
		return 2
	}

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}

	sim := dot / (aNorm * bNorm)
	// Clamp for floating-point drift outside [-1,1].
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return 1 - sim
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// encodeVector serializes a vector as little-endian float32 bytes.
func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, x := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

// decodeVector deserializes a little-endian float32 blob.
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob) != 4*Dim {
		return nil, fmt.Errorf("embedding blob has %d bytes, want %d", len(blob), 4*Dim)
	}
	vec := make([]float32, Dim)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[4*i:]))
	}
	return vec, nil
}
