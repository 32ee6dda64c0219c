// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/models"
	"github.com/danielhkuo/meetslot/router"
	"github.com/danielhkuo/meetslot/testutil"
)

func setupServer(t *testing.T) *http.ServeMux {
	t.Helper()
	return router.NewRouter(lifecycle.New(testutil.SetupStore(t)))
}

func createStandup(t *testing.T, mux *http.ServeMux, id string) models.CreatePollResponse {
	t.Helper()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls", map[string]any{
		"id":           id,
		"title":        "Standup",
		"start_date":   "2024-01-01",
		"end_date":     "2024-01-02",
		"start_time":   "09:00",
		"end_time":     "10:00",
		"slot_minutes": 30,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePollResponse
	testutil.AssertJSON(t, w, &resp)
	return resp
}

func submitBallot(t *testing.T, mux *http.ServeMux, pollID, voter string, avail map[string]bool) {
	t.Helper()
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+pollID+"/ballots", map[string]any{
		"voter_name": voter,
		"credential": "pw-" + voter,
		"available":  avail,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
}

func TestCreatePollEndpoint(t *testing.T) {
	mux := setupServer(t)

	resp := createStandup(t, mux, "standup")
	if resp.PollID != "standup" || resp.State != models.StateDraft || len(resp.Options) != 4 {
		t.Errorf("Unexpected create response: %+v", resp)
	}

	// Invalid config maps to 400 with the offending field.
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls", map[string]any{
		"id": "bad", "title": "Bad", "start_date": "2024-01-02", "end_date": "2024-01-01",
		"start_time": "09:00", "end_time": "10:00", "slot_minutes": 30,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestListAndGetPoll(t *testing.T) {
	mux := setupServer(t)
	createStandup(t, mux, "standup")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var items []models.PollListItem
	testutil.AssertJSON(t, w, &items)
	if len(items) != 1 || items[0].ID != "standup" || items[0].Created == "" {
		t.Errorf("Unexpected poll list: %+v", items)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var poll models.PollWithOptions
	testutil.AssertJSON(t, w, &poll)
	if poll.Poll.ID != "standup" || len(poll.Options) != 4 || poll.State != models.StateDraft {
		t.Errorf("Unexpected poll payload: %+v", poll)
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/ghost", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestBallotEndpoints(t *testing.T) {
	mux := setupServer(t)
	resp := createStandup(t, mux, "standup")
	a := resp.Options[0].ID

	submitBallot(t, mux, "standup", "Alice", map[string]bool{a: true})

	// Read back with the right credential.
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup/ballots/Alice", nil,
		map[string]string{"X-Voter-Password": "pw-Alice"}))
	testutil.AssertStatus(t, w, http.StatusOK)
	var ballot models.BallotResponse
	testutil.AssertJSON(t, w, &ballot)
	if !ballot.Available[a] || len(ballot.Available) != 4 {
		t.Errorf("Unexpected ballot: %+v", ballot)
	}

	// Wrong credential is a 403.
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup/ballots/Alice", nil,
		map[string]string{"X-Voter-Password": "wrong"}))
	testutil.AssertStatus(t, w, http.StatusForbidden)

	// Organizer edit via PUT.
	b := resp.Options[1].ID
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/polls/standup/ballots/Alice", map[string]any{
		"available": map[string]bool{b: true},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/polls/standup/ballots/Nobody", map[string]any{
		"available": map[string]bool{},
	}, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestResultsEndpoint(t *testing.T) {
	mux := setupServer(t)
	resp := createStandup(t, mux, "standup")
	a := resp.Options[0].ID

	submitBallot(t, mux, "standup", "Alice", map[string]bool{a: true})
	submitBallot(t, mux, "standup", "Bob", map[string]bool{a: true})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.PollResults
	testutil.AssertJSON(t, w, &results)
	if results.BestOptionID != a || len(results.Participants) != 2 {
		t.Errorf("Unexpected results: %+v", results)
	}
}

func TestNarrowAndFinalizeEndpoints(t *testing.T) {
	mux := setupServer(t)
	resp := createStandup(t, mux, "standup")
	keep := []string{resp.Options[0].ID, resp.Options[1].ID}

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/standup/narrow",
		map[string]any{"keep": keep}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var poll models.PollWithOptions
	testutil.AssertJSON(t, w, &poll)
	if len(poll.Options) != 2 {
		t.Errorf("Expected 2 options after narrowing, got %d", len(poll.Options))
	}

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/standup/finalize",
		map[string]any{"option_id": keep[0]}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/standup/finalize",
		map[string]any{"option_id": "alien"}, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/standup/finalize",
		map[string]any{}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestDeletePollEndpoint(t *testing.T) {
	mux := setupServer(t)
	createStandup(t, mux, "standup")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/polls/standup", nil, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/polls/standup?confirm=standup", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup", nil, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestDownloadICSEndpoint(t *testing.T) {
	mux := setupServer(t)
	resp := createStandup(t, mux, "standup")

	// Not finalized yet: conflict.
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup/calendar.ics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusConflict)

	fw := httptest.NewRecorder()
	mux.ServeHTTP(fw, testutil.MakeRequest("POST", "/polls/standup/finalize",
		map[string]any{"option_id": resp.Options[0].ID}, nil))
	testutil.AssertStatus(t, fw, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/standup/calendar.ics", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "text/calendar" {
		t.Errorf("Expected text/calendar, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, "BEGIN:VEVENT") || !strings.Contains(body, "DTSTART:20240101T090000Z") {
		t.Errorf("Unexpected ics body:\n%s", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	mux := setupServer(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Unexpected health body %q", w.Body.String())
	}
}
