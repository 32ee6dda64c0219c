// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the meetslot API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints,
using Go 1.22+ method-and-pattern routing:

	mux := router.NewRouter(mgr)

# Routes

	GET    /health
	GET    /                             → version banner

	POST   /polls                        → create or overwrite a poll
	GET    /polls                        → list polls, most recent first
	GET    /polls/{id}                   → poll with options and state
	POST   /polls/{id}/narrow            → drop options outside the keep set
	POST   /polls/{id}/finalize          → bind the confirmed slot
	DELETE /polls/{id}                   → delete (confirm query param)

	POST   /polls/{id}/ballots           → submit/replace a ballot
	GET    /polls/{id}/ballots/{voter}   → read back own ballot
	PUT    /polls/{id}/ballots/{voter}   → organizer ballot edit

	GET    /polls/{id}/results           → aggregated results
	GET    /polls/{id}/calendar.ics      → ICS download (finalized only)
	POST   /polls/{id}/calendar/push     → push to a Synology calendar

All routes are wrapped with middleware.WithLogging.
*/
package router
