// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

// Package config provides layered configuration loading for Cinemind.
//
// Configuration is resolved with koanf in three layers, later layers
// overriding earlier ones:
//
//  1. Built-in defaults
//  2. Optional YAML config file (CONFIG_PATH or the default search paths)
//  3. Environment variables (explicit mapping table; unmapped vars ignored)
//
// The resolved Config is validated before use; an invalid configuration
// fails startup rather than degrading at request time.
package config
