package domain

import (
	"context"
	"time"
)

// Role is the application role of a user.
type Role string

const (
	RoleEntrant   Role = "entrant"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

// Capability names an operation gated by role checks.
type Capability string

const (
	CapJoinWaitlist     Capability = "join_waitlist"
	CapRespondInvite    Capability = "respond_invitation"
	CapCreateEvent      Capability = "create_event"
	CapManageLottery    Capability = "manage_lottery"
	CapBrowseAllEvents  Capability = "browse_all_events"
	CapDeleteAnyEvent   Capability = "delete_any_event"
	CapDeleteUser       Capability = "delete_user"
)

// roleCapabilities is the single source of truth for role-based permission
// checks; controllers consult it instead of ad hoc role comparisons.
var roleCapabilities = map[Role][]Capability{
	RoleEntrant:   {CapJoinWaitlist, CapRespondInvite, CapBrowseAllEvents},
	RoleOrganizer: {CapJoinWaitlist, CapRespondInvite, CapBrowseAllEvents, CapCreateEvent, CapManageLottery},
	RoleAdmin:     {CapJoinWaitlist, CapRespondInvite, CapBrowseAllEvents, CapCreateEvent, CapManageLottery, CapDeleteAnyEvent, CapDeleteUser},
}

// RoleCan reports whether the role grants the capability.
func RoleCan(role Role, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleEntrant, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered user.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID and role.
type TokenVerifier interface {
	Verify(token string) (userID string, role Role, err error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	ListByIDs(ctx context.Context, ids []string) ([]*User, error)
	Delete(ctx context.Context, id string) error
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, username, role string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}

// UserService defines profile and account lifecycle operations.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	// DeleteUser removes the account and scrubs the user id from the lottery
	// state of every event.
	DeleteUser(ctx context.Context, userID string) error
	ListMyNotifications(ctx context.Context, userID string, params PaginationParams) ([]*Notification, int, error)
}
