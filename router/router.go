// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/meetslot/handlers"
	"github.com/danielhkuo/meetslot/lifecycle"
	"github.com/danielhkuo/meetslot/middleware"
)

func NewRouter(mgr *lifecycle.Manager) *http.ServeMux {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(mgr)
	votingHandler := handlers.NewVotingHandler(mgr)
	resultsHandler := handlers.NewResultsHandler(mgr)
	exportHandler := handlers.NewExportHandler(mgr)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management (organizer operations)
	mux.HandleFunc("POST /polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /polls", middleware.WithLogging(pollHandler.ListPolls))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/{id}/narrow", middleware.WithLogging(pollHandler.NarrowOptions))
	mux.HandleFunc("POST /polls/{id}/finalize", middleware.WithLogging(pollHandler.FinalizePoll))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(pollHandler.DeletePoll))

	// Voting operations (participant)
	mux.HandleFunc("POST /polls/{id}/ballots", middleware.WithLogging(votingHandler.SubmitBallot))
	mux.HandleFunc("GET /polls/{id}/ballots/{voter}", middleware.WithLogging(votingHandler.GetMyBallot))
	mux.HandleFunc("PUT /polls/{id}/ballots/{voter}", middleware.WithLogging(votingHandler.EditBallot))

	// Results (recomputed on read)
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Calendar export
	mux.HandleFunc("GET /polls/{id}/calendar.ics", middleware.WithLogging(exportHandler.DownloadICS))
	mux.HandleFunc("POST /polls/{id}/calendar/push", middleware.WithLogging(exportHandler.PushCalendar))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("meetslot API v1"))
	})

	return mux
}
