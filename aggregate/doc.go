// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package aggregate computes vote tallies over a poll's stored rows.

All functions are pure: they take the option and vote slices as loaded
from the store and derive counts, voter lists, per-participant slot
summaries and the best option. Nothing here is cached or persisted;
results views recompute on every read.

# Best Option

Best returns the option with the highest availability count. Ties break
to the earliest start time, so the result is deterministic for any
input order. A poll whose top count is zero has no best option:

	best, ok := aggregate.Best(options, votes)

# Unanimity

An option is unanimous when every distinct participant of the poll
marked it available. A poll with no participants has no unanimous
options.
*/
package aggregate
