// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package calendar

import "time"

// Event is the one coarse payload the core hands to a calendar backend.
type Event struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// Gateway pushes a confirmed slot to an external calendar. Failure here is
// isolated: it never rolls back poll or vote state that already persisted.
type Gateway interface {
	PushEvent(ev Event) error
}

// ExternalServiceError reports a failed exchange with a remote calendar
// provider, naming the protocol step (discover, login, create) that broke.
type ExternalServiceError struct {
	Step string
	Err  error
}

func (e *ExternalServiceError) Error() string {
	return "calendar " + e.Step + ": " + e.Err.Error()
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
