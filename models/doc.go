// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

Internal data structures:

  - Poll: poll metadata, slot configuration, password, finalized slot
  - SlotConfig: date range, daily time window, slot length
  - TimeOfDay: naive wall-clock time (no timezone)
  - Slot: a generated candidate interval
  - Option: a persisted voting option with surrogate id
  - Vote: one explicit available/unavailable row per voter per option
  - OptionResult: per-option popularity with voter list and unanimity tag
  - PollResults: the full aggregated view, recomputed on every read

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: id, title, dates, times, slot_minutes, password
  - NarrowOptionsRequest: keep (option ids to retain)
  - SubmitBallotRequest: voter_name, credential, available map
  - EditBallotRequest: available map (organizer rewrite)
  - FinalizeRequest: option_id
  - PushCalendarRequest: base_url, account, password, calendar_id

# Response Types

Types for JSON responses:

  - CreatePollResponse: poll_id, state, options
  - PollListItem: id, title, created_at plus a humanized created string
  - PollWithOptions: poll, options, derived state
  - BallotResponse: voter_name, available map, comment
  - ErrorResponse: error, message

# Lifecycle States

State is derived, never stored:

	StateDraft      = "draft"      // no votes yet
	StateCollecting = "collecting" // at least one vote row
	StateFinalized  = "finalized"  // organizer bound a slot

# Timestamps

All timestamps persist as naive local text, no timezone conversion:

	TimestampLayout = "2006-01-02T15:04:05"
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"

# Errors

The error taxonomy lives in errors.go: ValidationError and AuthError
carry a field/reason, StorageError wraps driver failures, and the
ErrPollNotFound, ErrOptionNotFound and ErrVoterNotFound sentinels mark
missing resources.
*/
package models
