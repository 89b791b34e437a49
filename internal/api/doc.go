// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package api exposes the recommendation pipeline over HTTP using the Chi
// router. Responses use a standardized envelope; pipeline errors map to
// stable machine-readable codes.
package api
