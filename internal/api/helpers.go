// Cinemind - Semantic Movie Recommendation Service
// Copyright 2026 Cinemind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinemind/cinemind

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/cinemind/cinemind/internal/logging"
	"github.com/cinemind/cinemind/internal/models"
)

// respondJSON sends a wrapped success or error payload.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, status int, data any) {
	respondJSON(w, status, &models.APIResponse{
		Status:    "success",
		Data:      data,
		Timestamp: time.Now(),
	})
}

func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:    "error",
		Timestamp: time.Now(),
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}
