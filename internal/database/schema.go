// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package database

import "fmt"

// schemaStatements creates the persistent tables. All statements are
// idempotent so startup can run them unconditionally.
//
// Genres are stored comma-separated; the catalog splits them on read.
// Embeddings are stored as little-endian float32 BLOBs; the vector index
// owns the encoding.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movies (
		id              BIGINT PRIMARY KEY,
		title           VARCHAR NOT NULL,
		overview        VARCHAR NOT NULL DEFAULT '',
		genres          VARCHAR NOT NULL DEFAULT '',
		budget          BIGINT  NOT NULL DEFAULT 0,
		revenue         BIGINT  NOT NULL DEFAULT 0,
		runtime_minutes INTEGER NOT NULL DEFAULT 0,
		release_year    INTEGER NOT NULL DEFAULT 0,
		vote_average    DOUBLE  NOT NULL DEFAULT 0,
		vote_count      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS user_ratings (
		user_id  BIGINT    NOT NULL,
		movie_id BIGINT    NOT NULL,
		rating   DOUBLE    NOT NULL,
		rated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_embeddings (
		movie_id   BIGINT    PRIMARY KEY,
		embedding  BLOB      NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS movie_enrichment (
		movie_id        BIGINT    PRIMARY KEY,
		sentiment       VARCHAR   NOT NULL,
		budget_tier     VARCHAR   NOT NULL,
		revenue_tier    VARCHAR   NOT NULL,
		effectiveness   INTEGER   NOT NULL,
		target_audience VARCHAR   NOT NULL,
		computed_at     TIMESTAMP NOT NULL
	)`,
}

// initSchema creates all tables if they do not exist.
func (db *DB) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
