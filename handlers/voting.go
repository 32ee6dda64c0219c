// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/middleware"
	"github.com/danielhkuo/meetslot/models"
)

type VotingHandler struct {
	mgr *lifecycle.Manager
}

func NewVotingHandler(mgr *lifecycle.Manager) *VotingHandler {
	return &VotingHandler{mgr: mgr}
}

// SubmitBallot handles POST /polls/{id}/ballots. The request replaces the
// participant's whole ballot: one explicit yes/no per current option.
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.mgr.SubmitBallot(pollID, req); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.BallotResponse{
		VoterName: req.VoterName,
		Available: req.Available,
		Comment:   req.Comment,
	})
}

// GetMyBallot handles GET /polls/{id}/ballots/{voter}. The participant
// credential arrives in the X-Voter-Password header.
func (h *VotingHandler) GetMyBallot(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	voter := r.PathValue("voter")
	if pollID == "" || voter == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id and voter name are required")
		return
	}

	votes, err := h.mgr.Ballot(pollID, voter, r.Header.Get("X-Voter-Password"))
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	resp := models.BallotResponse{VoterName: voter, Available: make(map[string]bool, len(votes))}
	for _, v := range votes {
		resp.Available[v.OptionID] = v.Available
		if resp.Comment == "" && v.Comment != "" {
			resp.Comment = v.Comment
		}
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// EditBallot handles PUT /polls/{id}/ballots/{voter}: an organizer rewrite
// of one participant's availability, keeping their comment and credential.
func (h *VotingHandler) EditBallot(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	voter := r.PathValue("voter")
	if pollID == "" || voter == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id and voter name are required")
		return
	}

	var req models.EditBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.mgr.EditBallot(pollID, voter, req.Available); err != nil {
		middleware.WriteError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		VoterName: voter,
		Available: req.Available,
	})
}
