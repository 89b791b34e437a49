// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package database

import "errors"

// ErrNotFound indicates a lookup by id resolved to no row. Storage
// components return it so callers can distinguish absence from failure.
var ErrNotFound = errors.New("not found")
