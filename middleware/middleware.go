// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/meetslot/calendar"
	"github.com/danielhkuo/meetslot/models"
)

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Info("request started",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)

		next(w, r)

		duration := time.Since(start)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
		)
	}
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// WriteError maps a core error onto the HTTP surface: validation errors to
// 400, auth failures to 403, missing resources to 404, external calendar
// failures to 502, and everything else (storage included) to 500 without
// leaking internals.
func WriteError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var authErr *models.AuthError
	var externalErr *calendar.ExternalServiceError

	switch {
	case errors.As(err, &validationErr):
		ErrorResponse(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &authErr):
		ErrorResponse(w, http.StatusForbidden, authErr.Error())
	case errors.Is(err, models.ErrPollNotFound),
		errors.Is(err, models.ErrOptionNotFound),
		errors.Is(err, models.ErrVoterNotFound):
		ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.As(err, &externalErr):
		ErrorResponse(w, http.StatusBadGateway, externalErr.Error())
	default:
		slog.Error("internal error", "error", err)
		ErrorResponse(w, http.StatusInternalServerError, "Internal error")
	}
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Voter-Password")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
