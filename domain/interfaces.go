package domain

import "context"

// SessionStore defines durable persistence of exactly one session record.
// It is a dumb byte-for-byte layer: expiry is the session manager's job.
type SessionStore interface {
	// Write replaces the entire stored record atomically.
	Write(ctx context.Context, session *Session) error
	// Read returns the stored record, or ErrSessionAbsent when nothing is
	// stored. A malformed record is removed and reported as
	// ErrStoreCorrupt, never returned.
	Read(ctx context.Context) (*Session, error)
	// Clear removes the record entirely.
	Clear(ctx context.Context) error
}

// IdentityClient defines the credential exchange operations against the
// remote identity/verification service.
type IdentityClient interface {
	// Login triggers out-of-band OTP delivery; it never returns a session.
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	// VerifyOTP exchanges the one-time passcode for session material.
	VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error)
	// ResendOTP requests redelivery of the passcode.
	ResendOTP(ctx context.Context, email string) (*LoginResult, error)
	// Refresh rotates the session using the stored refresh credential.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	// Logout invalidates the bearer token remotely. Best-effort: callers
	// must not block local invalidation on its failure.
	Logout(ctx context.Context, bearerToken string) error
}

// SessionManager is the single authority over the current session; all
// mutation goes through it.
type SessionManager interface {
	Restore(ctx context.Context)
	Login(ctx context.Context, user *User, token, refreshToken string, expiresAt int64)
	Logout(ctx context.Context)
	Refresh(ctx context.Context) error
	Revalidate(ctx context.Context)

	CurrentUser() *User
	CurrentToken() string
	IsAuthenticated() bool
	IsApproved() bool
}
