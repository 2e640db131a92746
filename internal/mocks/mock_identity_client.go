package mocks

import (
	"context"

	"github.com/kalindafab/eventease-auth/domain"
)

// MockIdentityClient implements domain.IdentityClient for testing
type MockIdentityClient struct {
	LoginFunc     func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	VerifyOTPFunc func(ctx context.Context, email, code string) (*domain.AuthResult, error)
	ResendOTPFunc func(ctx context.Context, email string) (*domain.LoginResult, error)
	RefreshFunc   func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc    func(ctx context.Context, bearerToken string) error
}

// NewMockIdentityClient creates a new MockIdentityClient with default behaviors
func NewMockIdentityClient() *MockIdentityClient {
	return &MockIdentityClient{}
}

// Login triggers OTP delivery
func (m *MockIdentityClient) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: pending verification
	return &domain.LoginResult{Message: "OTP sent", PendingVerification: true}, nil
}

// VerifyOTP exchanges the passcode for session material
func (m *MockIdentityClient) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code)
	}
	// Default behavior: rejected
	return nil, domain.ErrOTPInvalid
}

// ResendOTP requests passcode redelivery
func (m *MockIdentityClient) ResendOTP(ctx context.Context, email string) (*domain.LoginResult, error) {
	if m.ResendOTPFunc != nil {
		return m.ResendOTPFunc(ctx, email)
	}
	// Default behavior: success
	return &domain.LoginResult{Message: "OTP resent", PendingVerification: true}, nil
}

// Refresh rotates the session
func (m *MockIdentityClient) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, refreshToken)
	}
	// Default behavior: rejected
	return nil, domain.ErrRefreshRejected
}

// Logout invalidates the bearer token remotely
func (m *MockIdentityClient) Logout(ctx context.Context, bearerToken string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, bearerToken)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.IdentityClient = (*MockIdentityClient)(nil)
