// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package main is the entry point for the Cinemind server.
//
// Cinemind recommends, explains, and compares movies from natural-language
// queries, backed by semantic vector retrieval over DuckDB and an
// OpenAI-compatible reasoning service.
//
// # Startup Order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     environment variables)
//  2. Logging: zerolog, JSON or console format
//  3. Database: DuckDB with the movies, ratings, embeddings and enrichment
//     tables; optional sample-data seeding
//  4. Vector index: loaded into memory from the embeddings table
//  5. Pipeline: guardrails, enhancer, embedding and completion clients,
//     assembler, backfill workers, engine, in dependency order
//  6. HTTP server: Chi router with the recommendation API and /metrics
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: the HTTP server stops
// accepting connections and drains in-flight requests, then queued
// enrichment backfills are drained, then the database closes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cinemind/cinemind/internal/api"
	"github.com/cinemind/cinemind/internal/catalog"
	"github.com/cinemind/cinemind/internal/config"
	"github.com/cinemind/cinemind/internal/database"
	"github.com/cinemind/cinemind/internal/embedding"
	"github.com/cinemind/cinemind/internal/enrichment"
	"github.com/cinemind/cinemind/internal/guardrail"
	"github.com/cinemind/cinemind/internal/llm"
	"github.com/cinemind/cinemind/internal/logging"
	"github.com/cinemind/cinemind/internal/recommend"
	"github.com/cinemind/cinemind/internal/vector"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("capable_model", cfg.LLM.CapableModel).
		Str("light_model", cfg.LLM.LightModel).
		Msg("Configuration loaded")

	db, err := database.Open(database.Config{
		Path:      cfg.Database.Path,
		MaxMemory: cfg.Database.MaxMemory,
		Threads:   cfg.Database.Threads,
	}, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Database.SeedSampleData {
		if err := db.Seed(context.Background()); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed sample data")
		}
		logging.Info().Msg("Sample data seeded")
	}

	index, err := vector.Open(context.Background(), db, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load vector index")
	}
	logging.Info().Int("vectors", index.Count()).Msg("Vector index ready")

	// Pipeline construction in dependency order: leaves first, engine last.
	store := catalog.NewStore(db, logger)
	cache := enrichment.NewCache(db, logger)
	inputGuard := guardrail.NewInput(logger)
	outputGuard := guardrail.NewOutput(logger)
	completer := llm.NewClient(cfg.LLM, logger)
	embedder := embedding.NewClient(cfg.Embedding, logger)
	enhancer := recommend.NewEnhancer(completer, logger)
	assembler := recommend.NewAssembler(store, cache, logger)
	backfill := recommend.NewBackfill(completer, cache, outputGuard, logger)

	engine := recommend.NewEngine(
		inputGuard, outputGuard, enhancer, embedder,
		index, assembler, store, completer, backfill, logger,
	)

	handler := api.NewHandler(engine, db, logger)
	router := api.NewRouter(handler, cfg.API)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	// Drain queued enrichment work so completed reasoning calls are not
	// thrown away at exit.
	backfill.Close()
	logging.Info().Msg("Shutdown complete")
}
