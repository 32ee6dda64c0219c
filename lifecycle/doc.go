// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package lifecycle drives the poll state machine above the store.

# States

A poll's state is derived from its rows, never stored:

	draft → collecting → finalized

The first vote moves a poll to collecting; Finalize binds a slot and
moves it to finalized. Narrowing away the finalized slot clears the
binding and the poll falls back to collecting (or draft when no votes
remain). Overwriting a poll resets it to draft.

# Operations

Manager owns validation, credential checks and cascade rules; handlers
stay thin:

	mgr := lifecycle.New(st)
	poll, options, err := mgr.CreateOrOverwrite(req)
	err = mgr.SubmitBallot(pollID, ballotReq)
	opt, err := mgr.Finalize(pollID, optionID)
	res, err := mgr.Results(pollID)

Finalize carries no vote-count threshold: an organizer may finalize a
poll nobody voted on.

# Credentials

SubmitBallot claims the voter's credential on first submission and
verifies it afterwards; a matching legacy plaintext credential is
rewritten to its hashed form. EditBallot is the organizer path and
preserves the stored credential and comment. Polls with a password
additionally gate SubmitBallot on it.

# Export

ExportSlot picks the slot a calendar export carries: the finalized slot
when set, otherwise the current best slot. A poll with neither is a
validation error, not a silent no-op.
*/
package lifecycle
