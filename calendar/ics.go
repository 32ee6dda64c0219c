// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const icsTimeLayout = "20060102T150405Z"

// BuildICS renders a single-VEVENT iCalendar artifact for download.
// Timestamps are emitted in UTC with CRLF line endings per RFC 5545.
func BuildICS(ev Event) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//meetslot//scheduler//EN",
		"BEGIN:VEVENT",
		"UID:" + uuid.NewString() + "@meetslot",
		"DTSTAMP:" + time.Now().UTC().Format(icsTimeLayout),
		"DTSTART:" + ev.Start.UTC().Format(icsTimeLayout),
		"DTEND:" + ev.End.UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeText(ev.Title),
		"DESCRIPTION:" + escapeText(ev.Description),
		"END:VEVENT",
		"END:VCALENDAR",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// escapeText escapes the characters RFC 5545 reserves in TEXT values.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
