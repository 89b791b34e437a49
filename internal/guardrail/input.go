// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package guardrail screens user input before it reaches any model and
// validates model output before it reaches any user.
//
// The two directions deliberately apply different policies. Input screening
// is strict and terminal: a query carrying an injection signature is blocked
// outright, never "cleaned up" and forwarded. Output validation salvages
// what it can: individually bad recommendation entries are dropped or
// clamped, and only a wholly unusable payload is rejected.
package guardrail

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/cinemind/cinemind/internal/metrics"
)

// MaxQueryLen is the longest query accepted after sanitization. Longer
// queries are truncated, not rejected.
const MaxQueryLen = 500

// ErrBlocked indicates input carried an injection signature.
var ErrBlocked = errors.New("input blocked")

// BlockedError wraps ErrBlocked with the matched signature name.
type BlockedError struct {
	// Signature is the short name of the matched pattern, used for
	// logging and metrics, never echoed back to the user.
	Signature string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("input blocked: matched signature %q", e.Signature)
}

func (e *BlockedError) Unwrap() error { return ErrBlocked }

// injectionSignatures are case-insensitive substrings checked against the
// sanitized query. Matching is intentionally coarse; false positives on
// movie queries are acceptable, silent prompt injection is not.
var injectionSignatures = []struct {
	name    string
	pattern string
}{
	{name: "ignore_instructions", pattern: "ignore previous instructions"},
	{name: "ignore_instructions", pattern: "ignore all previous instructions"},
	{name: "ignore_instructions", pattern: "ignore the above"},
	{name: "disregard_instructions", pattern: "disregard previous"},
	{name: "disregard_instructions", pattern: "disregard all prior"},
	{name: "forget_instructions", pattern: "forget your instructions"},
	{name: "system_prompt", pattern: "system prompt"},
	{name: "system_prompt", pattern: "reveal your prompt"},
	{name: "role_override", pattern: "you are now"},
	{name: "role_override", pattern: "act as an unrestricted"},
	{name: "role_override", pattern: "pretend to be"},
	{name: "role_override", pattern: "pretend you are not"},
	{name: "role_override", pattern: "roleplay as"},
	{name: "override_directive", pattern: "override your instructions"},
	{name: "override_directive", pattern: "override all restrictions"},
	{name: "new_instructions", pattern: "new instructions:"},
	{name: "new_instructions", pattern: "your new task is"},
	{name: "jailbreak", pattern: "jailbreak"},
	{name: "jailbreak", pattern: "developer mode"},
	{name: "jailbreak", pattern: "dan mode"},
}

// Input screens raw user queries.
type Input struct {
	logger zerolog.Logger
}

// NewInput creates the input guardrail.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInput(logger zerolog.Logger) *Input {
	return &Input{
		logger: logger.With().Str("component", "guardrail_input").Logger(),
	}
}

// SanitizeQuery normalizes a raw query and screens it for injection
// signatures. It strips control characters, collapses whitespace runs, trims,
// and truncates to MaxQueryLen, reporting the truncation to the caller as a
// notice rather than an error. A matched signature returns a *BlockedError;
// an empty result after cleaning is not an error here, the caller decides
// what an empty query means.
func (g *Input) SanitizeQuery(raw string) (query string, truncated bool, err error) {
	cleaned := sanitize(raw)

	lowered := strings.ToLower(cleaned)
	for _, sig := range injectionSignatures {
		if strings.Contains(lowered, sig.pattern) {
			metrics.GuardrailBlocks.WithLabelValues(sig.name).Inc()
			g.logger.Warn().
				Str("signature", sig.name).
				Int("query_len", len(cleaned)).
				Msg("query blocked by input guardrail")
			return "", false, &BlockedError{Signature: sig.name}
		}
	}

	if cut := Truncate(cleaned, MaxQueryLen); cut != cleaned {
		g.logger.Info().
			Int("original_len", len(cleaned)).
			Int("max_len", MaxQueryLen).
			Msg("query truncated")
		cleaned = strings.TrimSpace(cut)
		truncated = true
	}

	return cleaned, truncated, nil
}

// sanitize removes control characters and collapses whitespace to single
// spaces.
func sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	lastSpace := true
	for _, r := range raw {
		switch {
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}
