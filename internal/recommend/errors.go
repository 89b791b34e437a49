// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package recommend

import "errors"

// Error taxonomy for the pipeline. Blocked input is not represented here:
// a blocked query is an explained empty result, never an error to the
// caller.
var (
	// ErrNotFound indicates a caller-supplied id (movie, user) did not
	// resolve in the catalog.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates a malformed caller request, such as a
	// comparison with too few or too many movies.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrValidation indicates the reasoning service returned a response
	// that failed output validation. Never retried; a deterministic
	// validation failure wastes a call for no benefit.
	ErrValidation = errors.New("response validation failed")

	// ErrUpstream indicates an external dependency failed after retries.
	ErrUpstream = errors.New("upstream unavailable")
)
