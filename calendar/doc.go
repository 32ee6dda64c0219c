// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package calendar exports a poll's confirmed slot to calendar backends.

# ICS Download

BuildICS renders a minimal single-VEVENT iCalendar artifact with UTC
timestamps and CRLF line endings:

	ics := calendar.BuildICS(calendar.Event{...})

# Synology Push

Client implements the Gateway interface against a Synology Calendar
web API. One push is three exchanges, each bounded by the client
timeout:

 1. discover: GET /webapi/query.cgi for the versioned endpoint paths
 2. login: POST the account credentials for a session id (format=sid)
 3. create: POST the event JSON with the session id

Every response arrives in the provider's {success, data, error}
envelope. Failures wrap in ExternalServiceError carrying the step name,
which the HTTP surface maps to 502. A failed push never modifies poll
state; the caller simply retries.
*/
package calendar
