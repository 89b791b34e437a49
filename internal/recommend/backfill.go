// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/guardrail"
	"github.com/cinemind/cinemind/internal/llm"
	"github.com/cinemind/cinemind/internal/metrics"
	"github.com/cinemind/cinemind/internal/models"
)

const (
	defaultBackfillWorkers = 2
	defaultBackfillQueue   = 64

	// backfillTimeout bounds a single enrichment unit, which is one
	// reasoning call plus one cache write.
	backfillTimeout = 90 * time.Second
)

// Backfill computes enrichment for movies encountered without cached
// attributes. Work is handed off after the recommendation response is
// finalized and never awaited on the request path. Failures are logged and
// counted, not propagated.
type Backfill struct {
	completer llm.Completer
	cache     EnrichmentStore
	output    *guardrail.Output
	logger    zerolog.Logger

	queue    chan backfillJob
	wg       sync.WaitGroup
	mu       sync.Mutex
	closed   bool
	inFlight map[int64]struct{}
}

type backfillJob struct {
	movie models.Movie
}

// NewBackfill creates the backfill worker pool and starts its workers.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBackfill(completer llm.Completer, cache EnrichmentStore, output *guardrail.Output, logger zerolog.Logger) *Backfill {
	b := &Backfill{
		completer: completer,
		cache:     cache,
		output:    output,
		logger:    logger.With().Str("component", "backfill").Logger(),
		queue:     make(chan backfillJob, defaultBackfillQueue),
		inFlight:  make(map[int64]struct{}),
	}

	for i := 0; i < defaultBackfillWorkers; i++ {
		b.wg.Add(1)
		go b.worker()
	}
	return b
}

// Enqueue hands a movie to the workers. A full queue drops the job; the
// next request that surfaces the movie will enqueue it again. Duplicate
// submissions for a movie already queued or in flight are ignored.
func (b *Backfill) Enqueue(movie models.Movie) {
	// The mutex is held across the send so Close cannot close the queue
	// between the closed check and the send. The send never blocks, so
	// holding the lock here cannot stall other callers.
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	if _, busy := b.inFlight[movie.ID]; busy {
		return
	}

	select {
	case b.queue <- backfillJob{movie: movie}:
		b.inFlight[movie.ID] = struct{}{}
	default:
		metrics.BackfillOutcomes.WithLabelValues("dropped").Inc()
		b.logger.Warn().Int64("movie_id", movie.ID).Msg("backfill queue full, job dropped")
	}
}

// Close stops accepting work and waits for queued jobs to drain. The queue
// is closed under the same mutex Enqueue holds across its send.
func (b *Backfill) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.mu.Unlock()

	b.wg.Wait()
}

func (b *Backfill) release(movieID int64) {
	b.mu.Lock()
	delete(b.inFlight, movieID)
	b.mu.Unlock()
}

func (b *Backfill) worker() {
	defer b.wg.Done()
	for job := range b.queue {
		b.process(job.movie)
		b.release(job.movie.ID)
	}
}

// process runs one enrichment unit. Backfills are detached from any caller,
// so the context is fresh with its own deadline.
func (b *Backfill) process(movie models.Movie) {
	ctx, cancel := context.WithTimeout(context.Background(), backfillTimeout)
	defer cancel()

	raw, err := b.completer.Complete(ctx, llm.BuildEnrichmentPrompt(movie))
	if err != nil {
		metrics.BackfillOutcomes.WithLabelValues("failed").Inc()
		b.logger.Warn().Err(err).Int64("movie_id", movie.ID).Msg("enrichment completion failed")
		return
	}

	enriched, err := parseEnrichment(raw, movie.ID)
	if err != nil {
		metrics.BackfillOutcomes.WithLabelValues("failed").Inc()
		b.logger.Warn().Err(err).Int64("movie_id", movie.ID).Msg("enrichment response unparseable")
		return
	}
	if err := b.output.ValidateEnrichment(enriched); err != nil {
		metrics.BackfillOutcomes.WithLabelValues("failed").Inc()
		b.logger.Warn().Err(err).Int64("movie_id", movie.ID).Msg("enrichment response invalid")
		return
	}

	if err := b.cache.Upsert(ctx, enriched); err != nil {
		metrics.BackfillOutcomes.WithLabelValues("failed").Inc()
		b.logger.Error().Err(err).Int64("movie_id", movie.ID).Msg("enrichment cache write failed")
		return
	}

	metrics.BackfillOutcomes.WithLabelValues("stored").Inc()
	b.logger.Debug().Int64("movie_id", movie.ID).Msg("enrichment backfilled")
}
