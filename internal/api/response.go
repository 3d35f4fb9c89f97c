// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package api exposes the webhook and operational HTTP surface.
package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cinechat/cinechat/internal/logging"
)

// APIResponse is the response wrapper for JSON endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries machine and human readable error detail.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes used by the API surface.
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteSuccess writes a 200 envelope.
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

// WriteError writes an error envelope with the given status.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}
