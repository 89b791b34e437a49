// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package vector implements the persistent nearest-neighbor index keyed by
// movie id.
//
// Vectors are persisted in DuckDB as little-endian float32 blobs and held in
// memory for search; upserts write through. The distance metric is cosine
// distance (1 - cosine similarity), and the similarity exposed to callers is
// 1 - distance/2, mapping distance in [0,2] to similarity in [0,1].
//
// The index distinguishes "not yet built" (the embeddings table does not
// exist, i.e. the batch embedding job has never run against this database)
// from "built but empty". Searching an empty index returns an empty result;
// searching an unbuilt index returns ErrNotBuilt.
package vector
