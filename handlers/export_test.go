// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/meetslot/calendar"
	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/models"
	"github.com/danielhkuo/meetslot/testutil"
)

type stubGateway struct {
	pushed []calendar.Event
	err    error
}

func (g *stubGateway) PushEvent(ev calendar.Event) error {
	if g.err != nil {
		return g.err
	}
	g.pushed = append(g.pushed, ev)
	return nil
}

func pushRequest(pollID string) *http.Request {
	req := testutil.MakeRequest("POST", "/polls/"+pollID+"/calendar/push", map[string]any{
		"base_url":    "https://nas.example:5001",
		"account":     "admin",
		"password":    "nas-pw",
		"calendar_id": "cal-1",
	}, nil)
	req.SetPathValue("id", pollID)
	return req
}

func exportFixture(t *testing.T, gw calendar.Gateway) (*ExportHandler, *lifecycle.Manager, []models.Option) {
	t.Helper()
	st := testutil.SetupStore(t)
	options := testutil.CreateTestPoll(t, st, "standup", testutil.StandupConfig())
	mgr := lifecycle.New(st)
	h := NewExportHandler(mgr)
	h.newGateway = func(models.PushCalendarRequest) calendar.Gateway { return gw }
	return h, mgr, options
}

func TestPushCalendarFinalizedSlot(t *testing.T) {
	gw := &stubGateway{}
	h, mgr, options := exportFixture(t, gw)

	if _, err := mgr.Finalize("standup", options[1].ID); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	w := httptest.NewRecorder()
	h.PushCalendar(w, pushRequest("standup"))
	testutil.AssertStatus(t, w, http.StatusOK)

	if len(gw.pushed) != 1 {
		t.Fatalf("Expected one pushed event, got %d", len(gw.pushed))
	}
	if !gw.pushed[0].Start.Equal(options[1].Start) {
		t.Errorf("Expected finalized slot start %v, got %v", options[1].Start, gw.pushed[0].Start)
	}
}

func TestPushCalendarBestSlotFallback(t *testing.T) {
	gw := &stubGateway{}
	h, mgr, options := exportFixture(t, gw)

	if err := mgr.SubmitBallot("standup", models.SubmitBallotRequest{
		VoterName:  "Alice",
		Credential: "pw",
		Available:  map[string]bool{options[2].ID: true},
	}); err != nil {
		t.Fatalf("SubmitBallot failed: %v", err)
	}

	w := httptest.NewRecorder()
	h.PushCalendar(w, pushRequest("standup"))
	testutil.AssertStatus(t, w, http.StatusOK)

	if len(gw.pushed) != 1 || !gw.pushed[0].Start.Equal(options[2].Start) {
		t.Errorf("Expected best slot push, got %+v", gw.pushed)
	}
}

func TestPushCalendarNothingToExport(t *testing.T) {
	gw := &stubGateway{}
	h, _, _ := exportFixture(t, gw)

	w := httptest.NewRecorder()
	h.PushCalendar(w, pushRequest("standup"))
	testutil.AssertStatus(t, w, http.StatusBadRequest)
	if len(gw.pushed) != 0 {
		t.Error("Nothing must be pushed for a poll with no exportable slot")
	}
}

func TestPushCalendarRemoteFailure(t *testing.T) {
	gw := &stubGateway{err: &calendar.ExternalServiceError{Step: "login", Err: http.ErrHandlerTimeout}}
	h, mgr, options := exportFixture(t, gw)

	if _, err := mgr.Finalize("standup", options[0].ID); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}

	w := httptest.NewRecorder()
	h.PushCalendar(w, pushRequest("standup"))
	testutil.AssertStatus(t, w, http.StatusBadGateway)

	// The failed push must not have touched the poll.
	poll, err := mgr.Poll("standup")
	if err != nil {
		t.Fatalf("Poll failed: %v", err)
	}
	if !poll.Poll.Finalized() {
		t.Error("Remote failure must leave the poll state untouched")
	}
}

func TestPushCalendarMissingFields(t *testing.T) {
	gw := &stubGateway{}
	h, _, _ := exportFixture(t, gw)

	req := testutil.MakeRequest("POST", "/polls/standup/calendar/push", map[string]any{
		"base_url": "https://nas.example:5001",
	}, nil)
	req.SetPathValue("id", "standup")

	w := httptest.NewRecorder()
	h.PushCalendar(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
