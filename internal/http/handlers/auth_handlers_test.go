package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalindafab/eventease-auth/domain"
	"github.com/kalindafab/eventease-auth/internal/mocks"
	"github.com/kalindafab/eventease-auth/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	identity *mocks.MockIdentityClient
	store    *mocks.MockSessionStore
	manager  *session.Manager
	handlers *AuthHandlers
}

func newFixture() *fixture {
	identity := mocks.NewMockIdentityClient()
	store := mocks.NewMockSessionStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := session.NewManager(store, identity, logger)
	return &fixture{
		identity: identity,
		store:    store,
		manager:  manager,
		handlers: NewAuthHandlers(identity, manager),
	}
}

func postJSON(handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func approvedUser() *domain.User {
	return &domain.User{
		ID:          "u-1",
		FirstName:   "Ada",
		Email:       "ada@example.com",
		Role:        domain.RoleManager,
		Status:      domain.StatusApproved,
		Permissions: []string{domain.CanViewOwnEvents, domain.CanCreateEvents},
	}
}

func TestLoginHandler(t *testing.T) {
	t.Run("success reports pending verification", func(t *testing.T) {
		f := newFixture()
		w := postJSON(f.handlers.Login, `{"email":"ada@example.com","password":"secret"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, true, data["pendingVerification"])
		assert.False(t, f.manager.IsAuthenticated())
	})

	t.Run("malformed request", func(t *testing.T) {
		f := newFixture()
		w := postJSON(f.handlers.Login, `{"email":"ada@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejected credentials map to 401", func(t *testing.T) {
		f := newFixture()
		f.identity.LoginFunc = func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return nil, domain.ErrCredentialsRejected
		}
		w := postJSON(f.handlers.Login, `{"email":"ada@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unreachable identity maps to 503", func(t *testing.T) {
		f := newFixture()
		f.identity.LoginFunc = func(ctx context.Context, email, password string) (*domain.LoginResult, error) {
			return nil, domain.ErrIdentityUnreachable
		}
		w := postJSON(f.handlers.Login, `{"email":"ada@example.com","password":"secret"}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestVerifyOTPHandler(t *testing.T) {
	t.Run("success installs the session and returns the projection", func(t *testing.T) {
		f := newFixture()
		f.identity.VerifyOTPFunc = func(ctx context.Context, email, code string) (*domain.AuthResult, error) {
			return &domain.AuthResult{
				User:         approvedUser(),
				Token:        "access-1",
				RefreshToken: "refresh-1",
				ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
			}, nil
		}

		w := postJSON(f.handlers.VerifyOTP, `{"email":"ada@example.com","code":"123456"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, true, data["isAuthenticated"])
		assert.Equal(t, true, data["isApproved"])
		assert.Equal(t, "access-1", data["token"])
		assert.True(t, f.manager.IsAuthenticated())
		assert.Equal(t, 1, f.store.Writes)
	})

	t.Run("wrong code maps to 400", func(t *testing.T) {
		f := newFixture()
		w := postJSON(f.handlers.VerifyOTP, `{"email":"ada@example.com","code":"000000"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, f.manager.IsAuthenticated())
	})

	t.Run("throttled resend maps to 429", func(t *testing.T) {
		f := newFixture()
		f.identity.ResendOTPFunc = func(ctx context.Context, email string) (*domain.LoginResult, error) {
			return nil, domain.ErrOTPResendThrottled
		}
		w := postJSON(f.handlers.ResendOTP, `{"email":"ada@example.com"}`)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Run("without a session maps to 401", func(t *testing.T) {
		f := newFixture()
		w := postJSON(f.handlers.Refresh, `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("success returns the rotated projection", func(t *testing.T) {
		f := newFixture()
		f.manager.Login(context.Background(), approvedUser(), "access-1", "refresh-1", 0)
		f.identity.RefreshFunc = func(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
			assert.Equal(t, "refresh-1", refreshToken)
			return &domain.AuthResult{
				User:         approvedUser(),
				Token:        "access-2",
				RefreshToken: "refresh-2",
				ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
			}, nil
		}

		w := postJSON(f.handlers.Refresh, `{}`)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, "access-2", data["token"])
	})

	t.Run("rejected refresh clears the session and maps to 401", func(t *testing.T) {
		f := newFixture()
		f.manager.Login(context.Background(), approvedUser(), "access-1", "refresh-1", 0)

		w := postJSON(f.handlers.Refresh, `{}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, f.manager.IsAuthenticated())
	})
}

func TestLogoutHandler(t *testing.T) {
	f := newFixture()
	f.manager.Login(context.Background(), approvedUser(), "access-1", "refresh-1", 0)

	w := postJSON(f.handlers.Logout, `{}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.manager.IsAuthenticated())

	// Logging out again is still a success.
	w = postJSON(f.handlers.Logout, `{}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionHandler(t *testing.T) {
	t.Run("anonymous projection", func(t *testing.T) {
		f := newFixture()
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		f.handlers.Session(c)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeData(t, w)
		assert.Equal(t, false, data["isAuthenticated"])
		assert.Nil(t, data["user"])
	})

	t.Run("authenticated projection carries grant detail", func(t *testing.T) {
		f := newFixture()
		user := approvedUser()
		user.Permissions = append(domain.DefaultPermissions(user.Role), domain.CanManageSettings)
		f.manager.Login(context.Background(), user, "access-1", "refresh-1", 0)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/auth/session", nil)
		f.handlers.Session(c)

		data := decodeData(t, w)
		assert.Equal(t, true, data["isAuthenticated"])
		granted, ok := data["manuallyGranted"].([]any)
		require.True(t, ok)
		assert.Equal(t, []any{domain.CanManageSettings}, granted)
	})
}
