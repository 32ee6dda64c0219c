// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package slots generates candidate meeting slots from a poll configuration.

# Generation

Generate walks every day in the configured date range and emits
consecutive intervals inside the daily time window:

	sl := slots.Generate(cfg)

The final interval of a day is truncated at the window end, so a 75
minute window with 30 minute slots yields 30+30+15. Output is sorted,
non-overlapping, and deterministic: equal configurations always produce
equal slot sets.

# Labels and Signatures

Label renders a slot for display ("01/02 (Tue) 09:00 - 09:30").
Signature folds a configuration into a short comparable string, useful
for logging whether two polls share a slot grid.
*/
package slots
