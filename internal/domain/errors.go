package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when the request is malformed or out of range.
	ErrInvalidInput = errors.New("invalid input")
	// ErrVersionConflict is returned by the event repository when a
	// compare-and-swap write loses to a concurrent writer.
	ErrVersionConflict = errors.New("event version conflict")
)

// Invalid-state errors from lottery transitions. Messages are stable; the
// UI layer shows them verbatim.
var (
	ErrWaitlistFull       = errors.New("waitlist is full")
	ErrAlreadyRegistered  = errors.New("user already has an active registration for this event")
	ErrEmptyWaitlist      = errors.New("waitlist is empty: no replacements available")
	ErrEventFull          = errors.New("event is at capacity")
	ErrNoDeclinedSlot     = errors.New("no declined entrants to replace")
	ErrInvitationNotFound = errors.New("invitation not found for user")
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)
