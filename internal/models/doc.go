// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package models defines the shared data model for the recommendation
// pipeline: catalog movies, LLM-derived enrichment attributes, and the
// result types returned to callers.
//
// Catalog movies are immutable reference data owned by the catalog store.
// Enrichment attributes are derived lazily by the reasoning service and
// cached; at most one record exists per movie. Candidates and results are
// transient, request-scoped values and are never persisted.
package models
