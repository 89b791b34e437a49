// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package recommend orchestrates the guarded retrieval-and-reasoning
// pipeline.
//
// The primary flow runs a query through the input guardrail, best-effort
// enhancement, embedding, top-k vector retrieval, candidate assembly with
// cached enrichment, a capable-tier reasoning call, and the output guardrail
// before anything reaches the caller. Preference summarization and movie
// comparison are shorter flows over the same parts. Enrichment for movies
// not yet in the cache is backfilled by a background worker after the
// response is finalized, never on the request path.
package recommend
