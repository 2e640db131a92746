// Package authz answers permission and role questions about the current
// user. Everything here is a pure function over a user snapshot: no I/O,
// no side effects, safe to call on every request.
package authz

import "github.com/kalindafab/eventease-auth/domain"

// HasPermission reports whether the user holds at least one of the given
// permission tokens (OR semantics: surfaces are gated by "any one of
// these capabilities", never "all"). Always false for a nil user and for
// a locked account, whose capabilities are revoked regardless of role.
func HasPermission(user *domain.User, tokens ...string) bool {
	if user == nil || user.IsLocked() || len(tokens) == 0 {
		return false
	}
	for _, held := range user.Permissions {
		for _, want := range tokens {
			if held == want {
				return true
			}
		}
	}
	return false
}

// HasRole reports whether the user's role is one of the given roles.
// False for a nil user.
func HasRole(user *domain.User, roles ...domain.Role) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// UserSource provides the current user snapshot, typically the session
// manager.
type UserSource interface {
	CurrentUser() *domain.User
}

// Evaluator binds the pure checks to a user source for injection into
// consumers.
type Evaluator struct {
	source UserSource
}

// NewEvaluator creates an evaluator reading from source
func NewEvaluator(source UserSource) *Evaluator {
	return &Evaluator{source: source}
}

// HasPermission checks the current user against the given tokens
func (e *Evaluator) HasPermission(tokens ...string) bool {
	return HasPermission(e.source.CurrentUser(), tokens...)
}

// HasRole checks the current user against the given roles
func (e *Evaluator) HasRole(roles ...domain.Role) bool {
	return HasRole(e.source.CurrentUser(), roles...)
}
