// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package database owns the embedded DuckDB handle shared by the catalog,
// the vector index, and the enrichment cache.
//
// The DB is opened once at startup and injected into each storage component;
// there is no per-request reconnection. DuckDB provides the single-row write
// atomicity the enrichment cache relies on for its last-write-wins upserts.
package database
