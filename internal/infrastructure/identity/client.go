// Package identity is the credential exchange client for the remote
// identity/verification service. It issues the login, OTP, refresh, and
// logout exchanges and maps responses to typed results or typed failures;
// it holds no session state of its own.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kalindafab/eventease-auth/domain"
	"github.com/kalindafab/eventease-auth/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Client implements domain.IdentityClient over HTTPS JSON exchanges
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the identity service at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r otpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Code, validation.Required, validation.Length(4, 8), is.Digit),
	)
}

type messageResponse struct {
	Message             string `json:"message"`
	PendingVerification bool   `json:"pendingVerification"`
}

// verifyResponse mirrors the verify-otp payload, which nests the session
// material under "token".
type verifyResponse struct {
	Token struct {
		ID           string   `json:"id"`
		FirstName    string   `json:"firstname"`
		LastName     string   `json:"lastname"`
		Email        string   `json:"email"`
		Role         string   `json:"role"`
		Status       string   `json:"status"`
		Organization string   `json:"organization"`
		Permissions  []string `json:"permissions"`
		Token        string   `json:"token"`
		RefreshToken string   `json:"refreshToken"`
		ExpiresIn    int64    `json:"expiresIn"`
	} `json:"token"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	User         *domain.User `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresAt    int64        `json:"expiresAt"`
}

// Login implements domain.IdentityClient. A 2xx response only confirms
// out-of-band OTP delivery; no session material is returned.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	req := loginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCredentialsRejected, err)
	}

	var resp messageResponse
	err := c.post(ctx, "/api/users/login", req, "", &resp, domain.ErrCredentialsRejected)
	metrics.ObserveIdentityRequest("login", err)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{Message: resp.Message, PendingVerification: resp.PendingVerification}, nil
}

// VerifyOTP implements domain.IdentityClient
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*domain.AuthResult, error) {
	req := otpRequest{Email: email, Code: code}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOTPInvalid, err)
	}

	var resp verifyResponse
	err := c.post(ctx, "/api/users/verify-otp", req, "", &resp, domain.ErrOTPInvalid)
	metrics.ObserveIdentityRequest("verify_otp", err)
	if err != nil {
		return nil, err
	}
	if resp.Token.Token == "" {
		return nil, fmt.Errorf("%w: verify response carried no token", domain.ErrOTPInvalid)
	}

	result := &domain.AuthResult{
		User: &domain.User{
			ID:           resp.Token.ID,
			FirstName:    resp.Token.FirstName,
			LastName:     resp.Token.LastName,
			Email:        resp.Token.Email,
			Role:         domain.Role(resp.Token.Role),
			Status:       domain.Status(resp.Token.Status),
			Organization: resp.Token.Organization,
			Permissions:  resp.Token.Permissions,
		},
		Token:        resp.Token.Token,
		RefreshToken: resp.Token.RefreshToken,
		ExpiresIn:    resp.Token.ExpiresIn,
	}
	if result.ExpiresIn == 0 {
		result.ExpiresAt = tokenExpiry(result.Token)
	}
	return result, nil
}

// ResendOTP implements domain.IdentityClient
func (c *Client) ResendOTP(ctx context.Context, email string) (*domain.LoginResult, error) {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCredentialsRejected, err)
	}

	var resp messageResponse
	err := c.post(ctx, "/api/users/resend-otp", map[string]string{"email": email}, "", &resp, domain.ErrOTPResendThrottled)
	metrics.ObserveIdentityRequest("resend_otp", err)
	if err != nil {
		return nil, err
	}
	return &domain.LoginResult{Message: resp.Message, PendingVerification: resp.PendingVerification}, nil
}

// Refresh implements domain.IdentityClient
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if refreshToken == "" {
		return nil, domain.ErrRefreshRejected
	}

	var resp refreshResponse
	err := c.post(ctx, "/api/users/refresh", refreshRequest{RefreshToken: refreshToken}, "", &resp, domain.ErrRefreshRejected)
	metrics.ObserveIdentityRequest("refresh", err)
	if err != nil {
		return nil, err
	}
	if resp.User == nil || resp.Token == "" {
		return nil, fmt.Errorf("%w: refresh response incomplete", domain.ErrRefreshRejected)
	}

	result := &domain.AuthResult{
		User:         resp.User,
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    resp.ExpiresAt,
	}
	if result.RefreshToken == "" {
		// Server kept the same refresh credential.
		result.RefreshToken = refreshToken
	}
	if result.ExpiresAt == 0 {
		result.ExpiresAt = tokenExpiry(result.Token)
	}
	return result, nil
}

// Logout implements domain.IdentityClient. Best-effort: the caller clears
// local state regardless of the outcome here.
func (c *Client) Logout(ctx context.Context, bearerToken string) error {
	err := c.post(ctx, "/api/users/logout", struct{}{}, bearerToken, nil, domain.ErrCredentialsRejected)
	metrics.ObserveIdentityRequest("logout", err)
	return err
}

// post runs one JSON exchange. Transport errors map to
// ErrIdentityUnreachable, 4xx responses to rejection, 5xx to unreachable
// (the server is up but not serving; callers treat both as transient).
func (c *Client) post(ctx context.Context, path string, body any, bearer string, out any, rejection error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIdentityUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: malformed response: %v", rejection, err)
		}
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%w: %s", rejection, readErrorMessage(resp.Body, resp.Status))
	default:
		return fmt.Errorf("%w: %s", domain.ErrIdentityUnreachable, resp.Status)
	}
}

// readErrorMessage extracts the server's error message when it sent one
func readErrorMessage(body io.Reader, fallback string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fallback
}

// tokenExpiry reads the bearer token's exp claim without verifying the
// signature, as a fallback when the server omits a lifetime. Signature
// verification belongs to the APIs that consume the token, not to us.
func tokenExpiry(token string) int64 {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	return exp.UnixMilli()
}

var _ domain.IdentityClient = (*Client)(nil)
