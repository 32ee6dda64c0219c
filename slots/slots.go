// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slots

import (
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/meetslot/models"
)

// Generate partitions the configured date range into discrete bookable
// intervals. For each day in the inclusive range, a cursor starts at the
// window's start time and emits [cursor, min(cursor+slot, windowEnd))
// until it reaches the window's end; the last interval of a day may be
// shorter than the slot length. Output is sorted by start time and free of
// overlaps. Identical configs always yield identical sequences.
func Generate(cfg models.SlotConfig) []models.Slot {
	var out []models.Slot
	step := time.Duration(cfg.SlotMinutes) * time.Minute

	for day := cfg.StartDate; !day.After(cfg.EndDate); day = day.AddDate(0, 0, 1) {
		cursor := cfg.StartTime.On(day)
		windowEnd := cfg.EndTime.On(day)
		for cursor.Before(windowEnd) {
			end := cursor.Add(step)
			if end.After(windowEnd) {
				end = windowEnd
			}
			out = append(out, models.Slot{Start: cursor, End: end})
			cursor = end
		}
	}
	return out
}

// Signature derives a stable fingerprint of a slot configuration. Callers
// compare signatures to detect when a previewed option set must be
// regenerated after the organizer edits the form.
func Signature(cfg models.SlotConfig) string {
	return strings.Join([]string{
		cfg.StartDate.Format(models.DateLayout),
		cfg.EndDate.Format(models.DateLayout),
		cfg.StartTime.String(),
		cfg.EndTime.String(),
		strconv.Itoa(cfg.SlotMinutes),
	}, "|")
}

// Label renders a slot as "MM/DD (Dow) HH:MM - HH:MM" for display and for
// the aggregated per-participant summaries.
func Label(start, end time.Time) string {
	return start.Format("01/02 (Mon) 15:04") + " - " + end.Format("15:04")
}
