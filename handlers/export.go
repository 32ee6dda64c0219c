// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/meetslot/calendar"
	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/middleware"
	"github.com/danielhkuo/meetslot/models"
)

// ExportHandler bridges a poll's confirmed slot to calendar backends. The
// gateway factory exists so tests can point pushes at a stub server.
type ExportHandler struct {
	mgr        *lifecycle.Manager
	newGateway func(req models.PushCalendarRequest) calendar.Gateway
}

func NewExportHandler(mgr *lifecycle.Manager) *ExportHandler {
	return &ExportHandler{
		mgr: mgr,
		newGateway: func(req models.PushCalendarRequest) calendar.Gateway {
			return calendar.NewClient(req.BaseURL, req.Account, req.Password, req.CalendarID)
		},
	}
}

// DownloadICS handles GET /polls/{id}/calendar.ics. Only a finalized poll
// exports an artifact; participants should not book a slot that may still
// change.
func (h *ExportHandler) DownloadICS(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.mgr.Poll(pollID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	if !poll.Poll.Finalized() {
		middleware.ErrorResponse(w, http.StatusConflict, "poll is not finalized")
		return
	}

	ics := calendar.BuildICS(calendar.Event{
		Title:       poll.Poll.Title,
		Description: poll.Poll.Description,
		Start:       *poll.Poll.FinalStart,
		End:         *poll.Poll.FinalEnd,
	})
	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pollID+`.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ics)); err != nil {
		slog.Error("failed to write ics response", "error", err)
	}
}

// PushCalendar handles POST /polls/{id}/calendar/push. The finalized slot
// is pushed when one exists, the current best slot otherwise. A remote
// failure surfaces as 502 and never touches the poll's stored state.
func (h *ExportHandler) PushCalendar(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.PushCalendarRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.BaseURL == "" || req.Account == "" || req.Password == "" || req.CalendarID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "base_url, account, password and calendar_id are required")
		return
	}

	poll, slot, err := h.mgr.ExportSlot(pollID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	gw := h.newGateway(req)
	err = gw.PushEvent(calendar.Event{
		Title:       poll.Title,
		Description: poll.Description,
		Start:       slot.Start,
		End:         slot.End,
	})
	if err != nil {
		slog.Error("calendar push failed", "poll_id", pollID, "error", err)
		middleware.WriteError(w, err)
		return
	}

	slog.Info("calendar push succeeded", "poll_id", pollID)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "pushed"})
}
