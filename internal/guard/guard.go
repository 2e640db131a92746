// Package guard decides whether a protected destination may render. The
// decision is pure: it never fails, performs no I/O, and defaults to deny
// whenever the session is anything other than fully valid.
package guard

import (
	"github.com/kalindafab/eventease-auth/domain"
	"github.com/kalindafab/eventease-auth/internal/authz"
)

// Decision is the guard's verdict for a requested destination
type Decision string

const (
	Allow                Decision = "allow"
	RedirectLogin        Decision = "redirect_login"
	RedirectPending      Decision = "redirect_pending"
	RedirectUnauthorized Decision = "redirect_unauthorized"
)

// Redirect surfaces, mirroring the application's routes
const (
	LoginPath        = "/login"
	PendingPath      = "/pending-approval"
	UnauthorizedPath = "/unauthorized"
)

// Target returns the redirect path for a decision, or "" for Allow.
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectPending:
		return PendingPath
	case RedirectUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}

// SessionReader is the read-only session projection the guard consumes
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUser() *domain.User
}

// Decide maps (session, required permissions) to a verdict. An empty
// required set only demands authentication. A pending account is a
// distinct blocked state, sent to the approval surface rather than to
// login or the destination. Denial is normal control flow, not an error.
func Decide(session SessionReader, required ...string) Decision {
	if !session.IsAuthenticated() {
		return RedirectLogin
	}

	user := session.CurrentUser()
	if user != nil && user.Status == domain.StatusPending {
		return RedirectPending
	}

	if len(required) > 0 && !authz.HasPermission(user, required...) {
		return RedirectUnauthorized
	}
	return Allow
}
