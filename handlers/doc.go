// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the meetslot API.

# Handler Types

Each handler is a thin struct over the lifecycle manager:

  - PollHandler: create/overwrite, list, get, narrow, finalize, delete
  - VotingHandler: ballot submission, readback, organizer edits
  - ResultsHandler: aggregated results, recomputed on every read
  - ExportHandler: ICS download and calendar push

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(mgr)

# Poll Lifecycle

Polls progress through three derived states: draft → collecting → finalized

	POST   /polls                → CreatePoll (reusing an id overwrites)
	POST   /polls/{id}/narrow    → NarrowOptions (keep set)
	POST   /polls/{id}/finalize  → FinalizePoll
	DELETE /polls/{id}?confirm=  → DeletePoll (confirm must match the id)

# Voting Flow

	POST /polls/{id}/ballots         → SubmitBallot (whole-ballot replace)
	GET  /polls/{id}/ballots/{voter} → GetMyBallot (X-Voter-Password header)
	PUT  /polls/{id}/ballots/{voter} → EditBallot (organizer rewrite)

# Calendar Export

	GET  /polls/{id}/calendar.ics   → DownloadICS (finalized polls only, else 409)
	POST /polls/{id}/calendar/push  → PushCalendar (finalized or best slot)

PushCalendar builds its gateway through a factory field so tests can
substitute a stub; remote failures surface as 502 without touching the
poll.
*/
package handlers
