package domain

import "time"

// InvitationStatus is the lifecycle state of a single invitation.
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationDeclined  InvitationStatus = "DECLINED"
	InvitationCancelled InvitationStatus = "CANCELLED"
)

// Invitation records that a user was drawn from the waitlist. Non-pending
// invitations are retained as history even after the user moves to the
// attendees or declined set.
// swagger:model Invitation
type Invitation struct {
	UserID      string           `json:"user_id"`
	Username    string           `json:"username"`
	Status      InvitationStatus `json:"status"`
	InvitedAt   time.Time        `json:"invited_at"`
	RespondedAt *time.Time       `json:"responded_at,omitempty"`
}

// NewInvitation returns a PENDING invitation for the given user.
func NewInvitation(userID, username string, invitedAt time.Time) Invitation {
	return Invitation{
		UserID:    userID,
		Username:  username,
		Status:    InvitationPending,
		InvitedAt: invitedAt,
	}
}
