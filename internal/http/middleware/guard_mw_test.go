package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalindafab/eventease-auth/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSession struct {
	user *domain.User
}

func (s *fakeSession) IsAuthenticated() bool     { return s.user != nil }
func (s *fakeSession) CurrentUser() *domain.User { return s.user }

func guardedRouter(t *testing.T, session SessionReader) *gin.Engine {
	t.Helper()
	mw := NewGuardMW(session, newTestPolicy(t))

	r := gin.New()
	protected := r.Group("/", mw.Protect())
	protected.GET("/dashboard", func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	protected.GET("/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func redirectOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["redirect"]
}

func TestProtect(t *testing.T) {
	organizer := &domain.User{
		ID:          "u-1",
		Role:        domain.RoleManager,
		Status:      domain.StatusApproved,
		Permissions: []string{domain.CanViewOwnEvents, domain.CanCreateEvents},
	}

	t.Run("anonymous request is sent to login", func(t *testing.T) {
		r := guardedRouter(t, &fakeSession{})
		w := doRequest(r, http.MethodGet, "/dashboard")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "/login", redirectOf(t, w))
	})

	t.Run("pending account is sent to the approval page", func(t *testing.T) {
		pending := &domain.User{ID: "u-2", Role: domain.RoleManager, Status: domain.StatusPending}
		r := guardedRouter(t, &fakeSession{user: pending})
		w := doRequest(r, http.MethodGet, "/dashboard")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "/pending-approval", redirectOf(t, w))
	})

	t.Run("missing permission is denied", func(t *testing.T) {
		client := &domain.User{
			ID:          "u-3",
			Role:        domain.RoleClient,
			Status:      domain.StatusApproved,
			Permissions: []string{domain.CanBrowseEvents},
		}
		r := guardedRouter(t, &fakeSession{user: client})
		w := doRequest(r, http.MethodGet, "/dashboard")

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "/unauthorized", redirectOf(t, w))
	})

	t.Run("one matching permission out of several suffices", func(t *testing.T) {
		r := guardedRouter(t, &fakeSession{user: organizer})
		w := doRequest(r, http.MethodGet, "/dashboard")

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "u-1", body["userId"])
	})

	t.Run("authenticated-only route admits any approved user", func(t *testing.T) {
		client := &domain.User{ID: "u-4", Role: domain.RoleClient, Status: domain.StatusApproved}
		r := guardedRouter(t, &fakeSession{user: client})
		w := doRequest(r, http.MethodGet, "/profile")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
