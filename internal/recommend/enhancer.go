// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/guardrail"
	"github.com/cinemind/cinemind/internal/llm"
)

// Enhancer expands terse queries into richer retrieval phrases using the
// light model tier. Enhancement is best-effort: any failure falls back to
// the original query.
type Enhancer struct {
	completer llm.Completer
	logger    zerolog.Logger
}

// NewEnhancer creates a query enhancer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEnhancer(completer llm.Completer, logger zerolog.Logger) *Enhancer {
	return &Enhancer{
		completer: completer,
		logger:    logger.With().Str("component", "enhancer").Logger(),
	}
}

// Enhance returns the expanded query and whether enhancement was applied.
// Queries longer than the threshold are returned unchanged with no call
// made.
func (e *Enhancer) Enhance(ctx context.Context, query string) (string, bool) {
	if len(query) > enhanceThreshold {
		return query, false
	}

	expanded, err := e.completer.Complete(ctx, llm.BuildEnhancePrompt(query))
	if err != nil {
		e.logger.Warn().Err(err).Msg("query enhancement failed, using original query")
		return query, false
	}

	expanded = guardrail.Truncate(expanded, guardrail.MaxQueryLen)
	if expanded == "" || expanded == query {
		return query, false
	}

	e.logger.Debug().
		Int("original_len", len(query)).
		Int("expanded_len", len(expanded)).
		Msg("query enhanced")
	return expanded, true
}
