// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/middleware"
	"github.com/danielhkuo/meetslot/models"
)

type PollHandler struct {
	mgr *lifecycle.Manager
}

func NewPollHandler(mgr *lifecycle.Manager) *PollHandler {
	return &PollHandler{mgr: mgr}
}

// CreatePoll handles POST /polls. Reusing an existing poll id overwrites
// the poll wholesale: options regenerate, votes and finalization reset.
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, options, err := h.mgr.CreateOrOverwrite(req)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:  poll.ID,
		State:   models.StateDraft,
		Options: options,
	})
}

// ListPolls handles GET /polls
func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.mgr.ListPolls()
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	items := make([]models.PollListItem, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, models.PollListItem{
			ID:        s.ID,
			Title:     s.Title,
			CreatedAt: s.CreatedAt,
			Created:   humanize.Time(s.CreatedAt),
		})
	}
	middleware.JSONResponse(w, http.StatusOK, items)
}

// GetPoll handles GET /polls/{id}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
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
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// NarrowOptions handles POST /polls/{id}/narrow
func (h *PollHandler) NarrowOptions(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.NarrowOptionsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.mgr.Narrow(pollID, req.Keep); err != nil {
		middleware.WriteError(w, err)
		return
	}

	poll, err := h.mgr.Poll(pollID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// FinalizePoll handles POST /polls/{id}/finalize
func (h *PollHandler) FinalizePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.FinalizeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option_id is required")
		return
	}

	opt, err := h.mgr.Finalize(pollID, req.OptionID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, opt)
}

// DeletePoll handles DELETE /polls/{id}?confirm={id}
func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	if err := h.mgr.Delete(pollID, r.URL.Query().Get("confirm")); err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
