package models

import "errors"

// Not-found sentinels. Wrapped references compare with errors.Is.
var (
	ErrPollNotFound   = errors.New("poll not found")
	ErrOptionNotFound = errors.New("option not found")
	ErrVoterNotFound  = errors.New("voter not found")
)

// ValidationError reports a malformed or contradictory input. Field names
// the offending request field so callers can surface an actionable message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

// AuthError reports a credential or poll-password mismatch.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return e.Reason
}

// StorageError wraps a failure inside the persistence layer. Transactions
// roll back before this is returned; no partial state is committed.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
