package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kalindafab/eventease-auth/domain"
)

// AuthHandlers bridges the SPA's auth flows to the identity service and
// the session manager
type AuthHandlers struct {
	identity domain.IdentityClient
	manager  domain.SessionManager
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(identity domain.IdentityClient, manager domain.SessionManager) *AuthHandlers {
	return &AuthHandlers{identity: identity, manager: manager}
}

// LoginRequest represents the password login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// OTPVerifyRequest represents the OTP exchange request
type OTPVerifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// ResendRequest represents the OTP redelivery request
type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Login proxies the password exchange. Success only means an OTP was
// delivered out-of-band; no session exists yet.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.identity.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondExchangeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":             result.Message,
			"pendingVerification": result.PendingVerification,
		},
	})
}

// VerifyOTP exchanges the passcode for session material and installs the
// session
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.identity.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondExchangeError(c, err)
		return
	}

	h.manager.Login(c.Request.Context(), result.User, result.Token, result.RefreshToken, result.AbsoluteExpiry(time.Now()))

	c.JSON(http.StatusOK, gin.H{"data": h.sessionView()})
}

// ResendOTP requests passcode redelivery
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.identity.ResendOTP(c.Request.Context(), req.Email)
	if err != nil {
		respondExchangeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": result.Message}})
}

// Refresh rotates the session using the stored refresh credential
func (h *AuthHandlers) Refresh(c *gin.Context) {
	if err := h.manager.Refresh(c.Request.Context()); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		// Refresh failure already cleared the session.
		respondExchangeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": h.sessionView()})
}

// Logout clears the session. Always succeeds locally: a failed remote
// notification is observability, not an error for the caller.
func (h *AuthHandlers) Logout(c *gin.Context) {
	h.manager.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": "Logged out successfully"}})
}

// Session returns the SPA's auth projection
func (h *AuthHandlers) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.sessionView()})
}

func (h *AuthHandlers) sessionView() gin.H {
	user := h.manager.CurrentUser()
	view := gin.H{
		"isAuthenticated": h.manager.IsAuthenticated(),
		"isApproved":      h.manager.IsApproved(),
		"user":            nil,
	}
	if user != nil {
		view["user"] = user
		view["token"] = h.manager.CurrentToken()
		view["manuallyGranted"] = domain.ManuallyGranted(user)
		view["roleDefaults"] = domain.DefaultPermissions(user.Role)
	}
	return view
}

// respondExchangeError maps the credential exchange taxonomy to HTTP.
// Transient unreachability is distinct from a rejected credential.
func respondExchangeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrIdentityUnreachable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Identity service unavailable, please retry"})
	case errors.Is(err, domain.ErrOTPResendThrottled):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Please wait before requesting a new code"})
	case errors.Is(err, domain.ErrOTPInvalid), errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
	case errors.Is(err, domain.ErrRefreshRejected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again"})
	case errors.Is(err, domain.ErrCredentialsRejected):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
	}
}
