// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/middleware"
)

type ResultsHandler struct {
	mgr *lifecycle.Manager
}

func NewResultsHandler(mgr *lifecycle.Manager) *ResultsHandler {
	return &ResultsHandler{mgr: mgr}
}

// GetResults handles GET /polls/{id}/results. Aggregates are recomputed on
// every call; nothing is cached or persisted.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	results, err := h.mgr.Results(pollID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}
