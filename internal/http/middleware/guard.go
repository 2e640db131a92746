package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kalindafab/eventease-auth/domain"
	"github.com/kalindafab/eventease-auth/internal/guard"
	"github.com/kalindafab/eventease-auth/internal/metrics"
)

// SessionReader is what the guard middleware needs from the session
// manager: the pure read projection, nothing that mutates.
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUser() *domain.User
}

// GuardMW gates protected routes with the pure guard decision, resolving
// each route's required permissions from the route policy.
type GuardMW struct {
	session SessionReader
	policy  *RoutePolicy
}

// NewGuardMW creates the guard middleware
func NewGuardMW(session SessionReader, policy *RoutePolicy) *GuardMW {
	return &GuardMW{session: session, policy: policy}
}

// Protect returns the gin handler enforcing the guard decision. A denial
// is answered with the redirect target for the SPA to follow; it is a
// normal outcome and is never logged as a failure.
func (mw *GuardMW) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		required, err := mw.policy.RequiredPermissions(path, c.Request.Method)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			c.Abort()
			return
		}

		decision := guard.Decide(mw.session, required...)
		metrics.ObserveGuardDecision(string(decision))

		switch decision {
		case guard.Allow:
			if user := mw.session.CurrentUser(); user != nil {
				c.Set("user_id", user.ID)
				c.Set("user_role", string(user.Role))
			}
			c.Next()
		case guard.RedirectLogin:
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "Authentication required",
				"redirect": decision.Target(),
			})
			c.Abort()
		default:
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "Access denied",
				"redirect": decision.Target(),
			})
			c.Abort()
		}
	}
}
