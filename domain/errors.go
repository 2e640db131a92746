package domain

import "errors"

// Credential exchange errors
var (
	ErrIdentityUnreachable = errors.New("identity service unreachable")
	ErrCredentialsRejected = errors.New("credentials rejected")
	ErrOTPInvalid          = errors.New("invalid otp code")
	ErrOTPExpired          = errors.New("otp has expired")
	ErrOTPResendThrottled  = errors.New("otp resend throttled")
	ErrRefreshRejected     = errors.New("refresh token rejected")
)

// Session errors
var (
	ErrSessionAbsent    = errors.New("no stored session")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Store errors
var (
	ErrStoreCorrupt     = errors.New("stored session record is malformed")
	ErrStoreUnavailable = errors.New("session store unavailable")
)
