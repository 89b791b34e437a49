// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/guardrail"
	"github.com/cinemind/cinemind/internal/llm"
	"github.com/cinemind/cinemind/internal/models"
)

const validEnrichmentJSON = `{
	"sentiment": "positive",
	"budget_tier": "medium",
	"revenue_tier": "success",
	"effectiveness": 77.4,
	"target_audience": "fans of cerebral science fiction"
}`

func TestBackfillStoresValidEnrichment(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{respond: func(_ llm.Request) (string, error) {
		return validEnrichmentJSON, nil
	}}
	store := newMockEnrichmentStore()
	b := NewBackfill(completer, store, guardrail.NewOutput(zerolog.Nop()), zerolog.Nop())

	b.Enqueue(models.Movie{ID: 1, Title: "Solaris"})
	b.Close()

	got, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("enrichment not stored: %v", err)
	}
	if got.Sentiment != models.SentimentPositive {
		t.Errorf("Sentiment = %q", got.Sentiment)
	}
	if got.Effectiveness != 77 {
		t.Errorf("Effectiveness = %d, want rounded 77", got.Effectiveness)
	}
}

func TestBackfillInvalidResponseSwallowed(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{respond: func(_ llm.Request) (string, error) {
		return `{"sentiment": "ecstatic", "budget_tier": "medium", "revenue_tier": "success",
			"effectiveness": 50, "target_audience": "x"}`, nil
	}}
	store := newMockEnrichmentStore()
	b := NewBackfill(completer, store, guardrail.NewOutput(zerolog.Nop()), zerolog.Nop())

	b.Enqueue(models.Movie{ID: 2, Title: "Moon"})
	b.Close()

	if _, err := store.Get(context.Background(), 2); err == nil {
		t.Error("invalid enrichment was stored")
	}
}

func TestBackfillDeduplicatesInFlight(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	completer := &mockCompleter{respond: func(_ llm.Request) (string, error) {
		<-release
		return validEnrichmentJSON, nil
	}}
	store := newMockEnrichmentStore()
	b := NewBackfill(completer, store, guardrail.NewOutput(zerolog.Nop()), zerolog.Nop())

	movie := models.Movie{ID: 3, Title: "Arrival"}
	b.Enqueue(movie)
	b.Enqueue(movie)
	b.Enqueue(movie)
	close(release)
	b.Close()

	if got := completer.callCount(); got != 1 {
		t.Errorf("duplicate enqueues made %d completion calls, want 1", got)
	}
}

func TestBackfillEnqueueDuringCloseDoesNotPanic(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{respond: func(_ llm.Request) (string, error) {
		return validEnrichmentJSON, nil
	}}

	for i := 0; i < 200; i++ {
		b := NewBackfill(completer, newMockEnrichmentStore(), guardrail.NewOutput(zerolog.Nop()), zerolog.Nop())

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				b.Enqueue(models.Movie{ID: id, Title: "Solaris"})
			}(int64(g + 1))
		}
		b.Close()
		wg.Wait()
	}
}

func TestBackfillEnqueueAfterCloseIsNoop(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{respond: func(_ llm.Request) (string, error) {
		return validEnrichmentJSON, nil
	}}
	b := NewBackfill(completer, newMockEnrichmentStore(), guardrail.NewOutput(zerolog.Nop()), zerolog.Nop())
	b.Close()

	b.Enqueue(models.Movie{ID: 4})
	if got := completer.callCount(); got != 0 {
		t.Errorf("enqueue after close made %d calls", got)
	}
}
