// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package models

import "time"

// APIResponse is the standardized wrapper returned by every HTTP endpoint.
type APIResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Data carries the endpoint payload on success.
	Data any `json:"data,omitempty"`

	// Error carries structured details when Status is "error".
	Error *APIError `json:"error,omitempty"`

	// Timestamp is when the response was produced.
	Timestamp time.Time `json:"timestamp"`
}

// APIError is a machine-readable error payload.
type APIError struct {
	// Code is a stable uppercase identifier, e.g. "NOT_FOUND".
	Code string `json:"code"`

	// Message is a human-readable explanation safe to show callers.
	Message string `json:"message"`
}
