package domain

import (
	"context"
	"strings"
	"time"
)

// Event is the aggregate root for a capacity-limited lottery event. The
// waitlist, invitations, attendees and declined collections together form
// the lottery state machine; every transition goes through the methods
// below so the membership invariants hold after each one.
// swagger:model Event
type Event struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// Capacity is the maximum number of confirmed attendees; 0 means unbounded.
	Capacity int `json:"capacity"`
	// MaxEntrants is the maximum waitlist size, enforced at join time;
	// 0 or negative means unbounded.
	MaxEntrants int `json:"max_entrants"`

	Waitlist    []string     `json:"waitlist"`
	Invitations []Invitation `json:"invitations"`
	Attendees   []string     `json:"attendees"`
	Declined    []string     `json:"declined"`

	// SelectionsFinalized is set by the first draw; it distinguishes
	// "pending" from "not selected" for users still on the waitlist.
	SelectionsFinalized bool `json:"selections_finalized"`
	// ReplacementsDrawn counts replacement draws performed so far. An open
	// declined slot exists while it is below len(Declined).
	ReplacementsDrawn int `json:"replacements_drawn"`

	// Version is the optimistic-concurrency token checked by the repository
	// on save. It is owned by the storage layer.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent returns an empty-lottery Event owned by ownerID. ID is set by the
// repository on create.
func NewEvent(ownerID, title, description string, capacity, maxEntrants int, createdAt time.Time) *Event {
	return &Event{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Capacity:    capacity,
		MaxEntrants: maxEntrants,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func contains(ids []string, userID string) bool {
	for _, id := range ids {
		if id == userID {
			return true
		}
	}
	return false
}

// OnWaitlist reports whether userID is currently on the waitlist.
func (e *Event) OnWaitlist(userID string) bool {
	return contains(e.Waitlist, userID)
}

// PendingInvitation returns a pointer to the PENDING invitation for userID,
// or nil if the user has none. Historical (non-pending) invitations are
// ignored.
func (e *Event) PendingInvitation(userID string) *Invitation {
	for i := range e.Invitations {
		if e.Invitations[i].UserID == userID && e.Invitations[i].Status == InvitationPending {
			return &e.Invitations[i]
		}
	}
	return nil
}

// AddToWaitlist appends userID to the end of the waitlist. It returns
// (false, nil) if the user is already waitlisted (idempotent join),
// ErrAlreadyRegistered when the user holds a pending invitation or is
// already an attendee or declined entrant, and ErrWaitlistFull when
// MaxEntrants is reached.
func (e *Event) AddToWaitlist(userID string, now time.Time) (bool, error) {
	if e.OnWaitlist(userID) {
		return false, nil
	}
	if e.PendingInvitation(userID) != nil || contains(e.Attendees, userID) || contains(e.Declined, userID) {
		return false, ErrAlreadyRegistered
	}
	if e.MaxEntrants > 0 && len(e.Waitlist) >= e.MaxEntrants {
		return false, ErrWaitlistFull
	}
	e.Waitlist = append(e.Waitlist, userID)
	e.UpdatedAt = now
	return true, nil
}

// RemoveFromWaitlist removes userID from the waitlist if present and reports
// whether it was. Removing an absent user is a no-op.
func (e *Event) RemoveFromWaitlist(userID string, now time.Time) bool {
	for i, id := range e.Waitlist {
		if id == userID {
			e.Waitlist = append(e.Waitlist[:i], e.Waitlist[i+1:]...)
			e.UpdatedAt = now
			return true
		}
	}
	return false
}

// Invite moves userID from the waitlist to a new PENDING invitation. The
// user must currently be waitlisted, which rules out double-selection of
// anyone already invited, attending, or declined.
func (e *Event) Invite(userID, username string, now time.Time) error {
	if !e.RemoveFromWaitlist(userID, now) {
		return ErrNotFound
	}
	e.Invitations = append(e.Invitations, NewInvitation(userID, username, now))
	e.UpdatedAt = now
	return nil
}

// RespondToInvitation resolves the PENDING invitation for userID. Accepting
// moves the user to attendees; declining moves them to declined. Returns
// ErrInvitationNotFound when no pending invitation exists and ErrEventFull
// when accepting would exceed capacity.
func (e *Event) RespondToInvitation(userID string, accept bool, now time.Time) error {
	inv := e.PendingInvitation(userID)
	if inv == nil {
		return ErrInvitationNotFound
	}
	if accept {
		if e.Capacity > 0 && len(e.Attendees) >= e.Capacity {
			return ErrEventFull
		}
		inv.Status = InvitationAccepted
		e.Attendees = append(e.Attendees, userID)
	} else {
		inv.Status = InvitationDeclined
		e.Declined = append(e.Declined, userID)
	}
	inv.RespondedAt = &now
	e.UpdatedAt = now
	return nil
}

// CancelInvitation cancels the PENDING invitation for userID, displacing
// the user into the declined set. The freed slot becomes eligible for a
// replacement draw like any decline.
func (e *Event) CancelInvitation(userID string, now time.Time) error {
	inv := e.PendingInvitation(userID)
	if inv == nil {
		return ErrInvitationNotFound
	}
	inv.Status = InvitationCancelled
	inv.RespondedAt = &now
	e.Declined = append(e.Declined, userID)
	e.UpdatedAt = now
	return nil
}

// OpenDeclineSlots returns how many declined entrants have not yet been
// backfilled by a replacement draw.
func (e *Event) OpenDeclineSlots() int {
	n := len(e.Declined) - e.ReplacementsDrawn
	if n < 0 {
		return 0
	}
	return n
}

// ScrubUser removes every trace of userID from the lottery state: waitlist,
// attendees, declined, and any invitation records. Reports whether anything
// was removed. Used by the user-deletion cascade.
func (e *Event) ScrubUser(userID string, now time.Time) bool {
	changed := e.RemoveFromWaitlist(userID, now)
	for i := len(e.Attendees) - 1; i >= 0; i-- {
		if e.Attendees[i] == userID {
			e.Attendees = append(e.Attendees[:i], e.Attendees[i+1:]...)
			changed = true
		}
	}
	for i := len(e.Declined) - 1; i >= 0; i-- {
		if e.Declined[i] == userID {
			e.Declined = append(e.Declined[:i], e.Declined[i+1:]...)
			changed = true
		}
	}
	for i := len(e.Invitations) - 1; i >= 0; i-- {
		if e.Invitations[i].UserID == userID {
			e.Invitations = append(e.Invitations[:i], e.Invitations[i+1:]...)
			changed = true
		}
	}
	if changed {
		e.UpdatedAt = now
	}
	return changed
}

// UserStatus is the user-facing registration status derived from the
// lottery state.
type UserStatus string

const (
	StatusSelected      UserStatus = "SELECTED"
	StatusPending       UserStatus = "PENDING"
	StatusNotSelected   UserStatus = "NOT_SELECTED"
	StatusNotRegistered UserStatus = "NOT_REGISTERED"
)

// DetermineUserStatus derives the status of userID from the current
// collections and the finalized flag. Nil collections are treated as empty.
func (e *Event) DetermineUserStatus(userID string) UserStatus {
	if contains(e.Attendees, userID) {
		return StatusSelected
	}
	if contains(e.Waitlist, userID) {
		if !e.SelectionsFinalized {
			return StatusPending
		}
		return StatusNotSelected
	}
	return StatusNotRegistered
}

// IsFull reports whether the event has reached its attendee capacity.
// Capacity 0 means unbounded, so such events are never full.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && len(e.Attendees) >= e.Capacity
}

// Availability is the fullness filter used by browse/search.
type Availability string

const (
	AvailabilityAny     Availability = ""
	AvailabilityFull    Availability = "full"
	AvailabilityNotFull Availability = "not_full"
)

// EventFilter selects events for browse/search. Query matches title or
// description case-insensitively; an empty query matches everything.
type EventFilter struct {
	Query        string
	Availability Availability
}

// Matches reports whether the event satisfies the filter.
func (f EventFilter) Matches(e *Event) bool {
	switch f.Availability {
	case AvailabilityFull:
		if !e.IsFull() {
			return false
		}
	case AvailabilityNotFull:
		if e.IsFull() {
			return false
		}
	}
	if f.Query == "" {
		return true
	}
	q := strings.ToLower(f.Query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q)
}

// EventRepository defines the document-store interface for events. Save is a
// compare-and-swap on Event.Version: it fails with ErrVersionConflict when a
// concurrent writer got there first, so no update is silently lost.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Save(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
	ListAllIDs(ctx context.Context) ([]string, error)
}

// EventService defines organizer-facing event CRUD and public browse.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	// UpdateEvent patches the given fields; nil pointers leave the field unchanged.
	UpdateEvent(ctx context.Context, eventID, callerID string, title, description *string, capacity, maxEntrants *int) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID string, callerRole Role) error
	BrowseEvents(ctx context.Context, filter EventFilter, params PaginationParams) ([]*Event, int, error)
}
