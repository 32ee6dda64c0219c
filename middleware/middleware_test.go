// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/meetslot/calendar"
	"github.com/danielhkuo/meetslot/models"
)

func TestWithLogging(t *testing.T) {
	handlerCalled := false
	wrapped := WithLogging(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("made"))
	})

	w := httptest.NewRecorder()
	wrapped(w, httptest.NewRequest("POST", "/polls", nil))

	if !handlerCalled {
		t.Error("Expected handler to be called")
	}
	if w.Code != http.StatusCreated || w.Body.String() != "made" {
		t.Errorf("Logging must not alter the response: %d %q", w.Code, w.Body.String())
	}
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusOK, map[string]string{"message": "hello"})

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
	if body := strings.TrimSpace(w.Body.String()); body != `{"message":"hello"}` {
		t.Errorf("Unexpected body %q", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "poll is not finalized")

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "Conflict" || resp.Message != "poll is not finalized" {
		t.Errorf("Unexpected error payload: %+v", resp)
	}
}

func TestWriteError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &models.ValidationError{Field: "title", Reason: "required"}, http.StatusBadRequest},
		{"auth", &models.AuthError{Reason: "password mismatch"}, http.StatusForbidden},
		{"poll not found", models.ErrPollNotFound, http.StatusNotFound},
		{"option not found", models.ErrOptionNotFound, http.StatusNotFound},
		{"voter not found", models.ErrVoterNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("lookup: %w", models.ErrPollNotFound), http.StatusNotFound},
		{"external", &calendar.ExternalServiceError{Step: "login", Err: errors.New("timeout")}, http.StatusBadGateway},
		{"storage", &models.StorageError{Op: "insert poll", Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tc.err)
			if w.Code != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, w.Code)
			}
		})
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, &models.StorageError{Op: "insert poll", Err: errors.New("dsn=postgres://admin:hunter2@db")})

	if strings.Contains(w.Body.String(), "hunter2") {
		t.Error("Internal error details must not reach the client")
	}
}

func TestParseJSONBody(t *testing.T) {
	t.Run("valid JSON", func(t *testing.T) {
		body := `{"id":"standup","title":"Standup"}`
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))

		var parsed models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if parsed.ID != "standup" || parsed.Title != "Standup" {
			t.Errorf("Unexpected parse result: %+v", parsed)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{invalid}`))
		var parsed models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for invalid JSON")
		}
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(""))
		var parsed models.CreatePollRequest
		if err := ParseJSONBody(req, &parsed); err == nil {
			t.Error("Expected error for empty body")
		}
	})
}

func TestCORS(t *testing.T) {
	corsHandler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("handled"))
	}))

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/polls", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Code != http.StatusOK || w.Body.String() != "" {
			t.Errorf("Preflight must not reach the handler: %d %q", w.Code, w.Body.String())
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
			t.Error("Expected Access-Control-Allow-Origin to reflect request origin")
		}
		if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), "X-Voter-Password") {
			t.Error("Expected X-Voter-Password in allowed headers")
		}
	})

	t.Run("regular request passes through", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/polls", nil)
		w := httptest.NewRecorder()

		corsHandler.ServeHTTP(w, req)

		if w.Body.String() != "handled" {
			t.Error("Expected next handler to be called")
		}
		if w.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("Expected Access-Control-Allow-Origin to default to '*'")
		}
	})
}
