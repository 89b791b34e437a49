// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/llm"
)

func TestEnhanceShortQuery(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{respond: func(req llm.Request) (string, error) {
		if req.Tier != llm.TierLight {
			t.Errorf("enhancement used tier %q, want light", req.Tier)
		}
		return "space adventure with found-family crews and frontier exploration", nil
	}}
	e := NewEnhancer(completer, zerolog.Nop())

	got, enhanced := e.Enhance(context.Background(), "space adventure")
	if !enhanced {
		t.Fatal("Enhance() did not enhance a 15-char query")
	}
	if got == "space adventure" {
		t.Error("Enhance() returned the input unchanged")
	}
	if completer.callCount() != 1 {
		t.Errorf("Enhance() made %d calls, want 1", completer.callCount())
	}
}

func TestEnhanceLongQuerySkipped(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{}
	e := NewEnhancer(completer, zerolog.Nop())

	query := strings.Repeat("a", 150)
	got, enhanced := e.Enhance(context.Background(), query)
	if enhanced {
		t.Error("Enhance() enhanced a query above the threshold")
	}
	if got != query {
		t.Error("Enhance() modified a long query")
	}
	if completer.callCount() != 0 {
		t.Errorf("Enhance() made %d calls for a long query, want 0", completer.callCount())
	}
}

func TestEnhanceFailureFallsBack(t *testing.T) {
	t.Parallel()

	completer := &mockCompleter{respond: func(_ llm.Request) (string, error) {
		return "", errors.New("boom")
	}}
	e := NewEnhancer(completer, zerolog.Nop())

	got, enhanced := e.Enhance(context.Background(), "heist movies")
	if enhanced {
		t.Error("Enhance() reported success on failure")
	}
	if got != "heist movies" {
		t.Errorf("Enhance() = %q, want original query", got)
	}
}
