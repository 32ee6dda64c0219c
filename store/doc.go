// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists polls, options and votes over database/sql.

# Schema

Three relations, created by Init (safe to call repeatedly):

  - polls: id, title, description, slot configuration, password,
    final_start_ts/final_end_ts, created_at
  - options: surrogate uuid id, poll_id, start_ts, end_ts
  - votes: surrogate uuid id, poll_id, voter_name, option_id,
    available (0/1), comment, credential

Timestamps are TEXT in naive local form. Options are unique per
(poll_id, start_ts, end_ts); votes per (poll_id, voter_name,
option_id). Init also applies additive column migrations, ignoring
"already exists" failures.

# Drivers

The store runs on SQLite (modernc.org/sqlite) or PostgreSQL (lib/pq).
Queries are written with ? placeholders and rebound to $N for the
postgres driver.

# Write Semantics

Every write is one transaction:

  - OverwritePoll replaces a poll wholesale: delete votes, options and
    the poll row, then reinsert. Reusing an id resets the poll.
  - SaveBallot replaces a voter's whole ballot with one explicit 0/1
    row per current option.
  - NarrowOptions deletes the options outside the keep set together
    with their votes, and clears finalization if the finalized slot
    was among them.
  - Finalize copies the chosen option's interval onto the poll row.
  - DeletePoll removes the poll and everything under it.

Reads return models types with timestamps parsed back; missing rows
surface the models sentinels, driver failures wrap in StorageError.
*/
package store
