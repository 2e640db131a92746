package domain

import "time"

// Role is the closed set of account roles
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleClient  Role = "client"
)

// Status is the closed set of account states
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusLocked   Status = "locked"
)

// User represents the authenticated account embedded in a session.
// Identity fields are immutable once set; Permissions is the authoritative
// capability set, materialized by the identity service at account creation.
type User struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"firstname"`
	LastName     string   `json:"lastname"`
	Email        string   `json:"email"`
	Role         Role     `json:"role"`
	Status       Status   `json:"status"`
	Organization string   `json:"organization,omitempty"`
	Permissions  []string `json:"permissions"`
}

// IsApproved reports whether role capabilities are active
func (u *User) IsApproved() bool {
	return u != nil && u.Status == StatusApproved
}

// IsLocked reports whether all capabilities are revoked
func (u *User) IsLocked() bool {
	return u != nil && u.Status == StatusLocked
}

// Session is the root aggregate owned by the session manager. User and
// Token are set or cleared together, never partially present.
type Session struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    int64  `json:"expiresAt"` // ms since epoch; 0 means no recorded expiry
}

// Expired reports whether the session's expiry has passed. A zero
// ExpiresAt never expires (adopted as-is on restore).
func (s *Session) Expired(now time.Time) bool {
	if s == nil {
		return true
	}
	return s.ExpiresAt != 0 && s.ExpiresAt <= now.UnixMilli()
}

// Valid reports whether the record is a complete, non-expired session.
// Readers must treat an expired record as invalid even before an explicit
// refresh or logout runs.
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.User != nil && s.Token != "" && !s.Expired(now)
}

// LoginResult is the identity service's response to a password login.
// It never carries a session; it only triggers out-of-band OTP delivery.
type LoginResult struct {
	Message             string
	PendingVerification bool
}

// AuthResult is the session material returned by the OTP verification and
// refresh exchanges.
type AuthResult struct {
	User         *User
	Token        string
	RefreshToken string
	ExpiresIn    int64 // relative lifetime in seconds; 0 when ExpiresAt is set
	ExpiresAt    int64 // absolute ms since epoch; 0 when ExpiresIn is set
}

// AbsoluteExpiry resolves the exchange response to an absolute expiry in
// ms since epoch, preferring the server's absolute timestamp.
func (r *AuthResult) AbsoluteExpiry(now time.Time) int64 {
	if r.ExpiresAt != 0 {
		return r.ExpiresAt
	}
	if r.ExpiresIn > 0 {
		return now.UnixMilli() + r.ExpiresIn*1000
	}
	return 0
}
