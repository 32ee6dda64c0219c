// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/meetslot/models"
	"github.com/danielhkuo/meetslot/slots"
	"github.com/danielhkuo/meetslot/store"
)

// SetupStore opens a fresh in-memory SQLite database with the full schema.
// Each call gets its own database; the single connection keeps the shared
// cache alive for the test's duration.
func SetupStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	st := store.New(db, "sqlite")
	if err := st.Init(); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return st
}

// StandupConfig is the canonical two-day fixture: 2024-01-01 to 2024-01-02,
// window 09:00-10:00, 30-minute slots (four options).
func StandupConfig() models.SlotConfig {
	return models.SlotConfig{
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   models.TimeOfDay{Hour: 9},
		EndTime:     models.TimeOfDay{Hour: 10},
		SlotMinutes: 30,
	}
}

// CreateTestPoll writes a poll with options generated from cfg and returns
// the persisted options in start order.
func CreateTestPoll(t *testing.T, st *store.Store, pollID string, cfg models.SlotConfig) []models.Option {
	t.Helper()

	poll := models.Poll{
		ID:          pollID,
		Title:       "Test Poll",
		Description: "A test poll",
		Config:      cfg,
		CreatedAt:   time.Now(),
	}
	options, err := st.OverwritePoll(poll, slots.Generate(cfg))
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return options
}

// SubmitTestBallot writes a participant's ballot directly through the
// store, bypassing credential checks.
func SubmitTestBallot(t *testing.T, st *store.Store, pollID, voter string, avail map[string]bool) {
	t.Helper()

	if err := st.SaveBallot(pollID, voter, avail, "", ""); err != nil {
		t.Fatalf("Failed to submit test ballot: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
