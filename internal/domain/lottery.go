package domain

import "context"

// DrawResult reports the outcome of a draw: the updated event and the user
// ids that received new PENDING invitations, in selection order.
type DrawResult struct {
	Event   *Event   `json:"event"`
	Invited []string `json:"invited"`
}

// LotteryService runs the event lottery lifecycle: waitlist membership,
// the initial draw, invitation responses, replacement draws, and status
// derivation. Each mutating operation is one atomic read-modify-write
// against the event document.
type LotteryService interface {
	// JoinWaitlist adds userID to the event's waitlist. joined is false when
	// the user was already waitlisted (idempotent); ErrWaitlistFull when the
	// waitlist is at MaxEntrants.
	JoinWaitlist(ctx context.Context, eventID, userID string) (joined bool, err error)
	// LeaveWaitlist removes userID from the waitlist; removed is false when
	// the user was not on it.
	LeaveWaitlist(ctx context.Context, eventID, userID string) (removed bool, err error)
	// DrawAttendees selects a uniform random sample of the waitlist to
	// invite. sampleSize overrides the computed target when non-nil; it is
	// clamped to [0, len(waitlist)]. An empty waitlist draws zero users and
	// is not an error.
	DrawAttendees(ctx context.Context, eventID, callerID string, sampleSize *int) (*DrawResult, error)
	// DrawReplacement invites exactly one random waitlisted user to backfill
	// an open declined slot.
	DrawReplacement(ctx context.Context, eventID, callerID string) (*DrawResult, error)
	// RespondToInvitation accepts or declines the caller's PENDING invitation.
	RespondToInvitation(ctx context.Context, eventID, userID string, accept bool) (*Event, error)
	// CancelInvitation lets the organizer withdraw a PENDING invitation,
	// displacing the entrant into the declined set.
	CancelInvitation(ctx context.Context, eventID, callerID, userID string) (*Event, error)
	// UserStatus derives the registration status of userID for the event.
	UserStatus(ctx context.Context, eventID, userID string) (UserStatus, error)
}
