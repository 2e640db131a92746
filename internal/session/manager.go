// Package session owns the current authenticated session. All mutation
// goes through the Manager; every other component only reads derived
// state from it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/kalindafab/eventease-auth/domain"
	"github.com/kalindafab/eventease-auth/internal/metrics"
)

// State is the manager's lifecycle state
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
)

const remoteLogoutTimeout = 5 * time.Second

// Manager is the single authority over the current session. One instance
// per process; multiple instances (tabs, replicas) may share the same
// store, where the last write wins.
type Manager struct {
	store    domain.SessionStore
	identity domain.IdentityClient
	logger   *slog.Logger

	mu      sync.RWMutex
	state   State
	session *domain.Session
	// gen is bumped on every install and clear. A suspended operation
	// captures it before the network call and discards its result when
	// the generation moved on, so a late refresh response can never
	// resurrect a logged-out session.
	gen uint64

	// storeMu serializes store mutations. Combined with the generation
	// check in persist, a superseded operation's late write can never
	// overwrite a newer clear.
	storeMu sync.Mutex

	now    func() time.Time
	events chan domain.Event
}

// NewManager creates a manager in the Unauthenticated state. Call Restore
// at application startup to adopt a persisted session.
func NewManager(store domain.SessionStore, identity domain.IdentityClient, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		identity: identity,
		logger:   logger,
		state:    StateUnauthenticated,
		now:      time.Now,
		events:   make(chan domain.Event, 16),
	}
}

// Events returns the lifecycle event channel. Events are dropped, not
// blocked on, when no consumer keeps up.
func (m *Manager) Events() <-chan domain.Event {
	return m.events
}

func (m *Manager) publish(ev domain.Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Restore initializes the manager from the store. Read errors and corrupt
// records are treated as "no session": an unreadable persisted session is
// never trusted. An expired record triggers one refresh attempt; any
// refresh failure clears everything.
func (m *Manager) Restore(ctx context.Context) {
	sess, err := m.store.Read(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionAbsent) {
			m.logger.Warn("session restore failed, starting logged out", "error", err)
		}
		m.clear()
		metrics.ObserveRestore("absent")
		return
	}

	if !sess.Expired(m.now()) {
		m.install(sess)
		metrics.ObserveRestore("adopted")
		m.publish(domain.NewEvent(domain.RestoredEvent, sess.User))
		return
	}

	// Expired: one refresh attempt with the stored credential. The record
	// is held as the in-flight session; lazy expiry keeps readers logged
	// out until the refresh lands.
	m.mu.Lock()
	m.session = sess
	m.state = StateRefreshing
	gen := m.gen
	m.mu.Unlock()

	if err := m.finishRefresh(ctx, sess.RefreshToken, gen); err != nil {
		metrics.ObserveRestore("failed")
		return
	}
	metrics.ObserveRestore("refreshed")
}

// Login installs a server-confirmed session and persists it. It has no
// error return: a store write failure is surfaced on the event channel
// and the in-memory session stays authoritative.
func (m *Manager) Login(ctx context.Context, user *domain.User, token, refreshToken string, expiresAt int64) {
	sess := &domain.Session{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
	gen := m.install(sess)

	if err := m.persist(ctx, sess, gen); err != nil {
		m.logger.Error("failed to persist session", "error", err, "user_id", user.ID)
		m.publish(domain.NewEvent(domain.StoreWriteFailedEvent, user).WithError(err))
	}
	metrics.ObserveSessionOp("login", nil)
	m.publish(domain.NewEvent(domain.LoggedInEvent, user))
}

// Logout clears local and persisted state unconditionally and notifies
// the identity service best-effort. The remote call runs detached; its
// failure is reported on the event channel, never blocking the clear.
// Calling Logout on a logged-out manager is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.state = StateUnauthenticated
	m.gen++
	m.mu.Unlock()

	if err := m.clearStore(ctx); err != nil {
		m.logger.Warn("failed to clear persisted session", "error", err)
	}

	if sess == nil {
		return
	}

	token := sess.Token
	user := sess.User
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteLogoutTimeout)
		defer cancel()
		if err := m.identity.Logout(ctx, token); err != nil {
			m.logger.Warn("remote logout failed", "error", err)
			m.publish(domain.NewEvent(domain.RemoteLogoutFailedEvent, user).WithError(err))
		}
	}()

	metrics.ObserveSessionOp("logout", nil)
	m.publish(domain.NewEvent(domain.LoggedOutEvent, user))
}

// Refresh rotates the session using the stored refresh credential. On any
// failure the session is fully cleared; a partial or stale session is
// never retained.
func (m *Manager) Refresh(ctx context.Context) error {
	refreshToken, gen, err := m.beginRefresh()
	if err != nil {
		return err
	}
	return m.finishRefresh(ctx, refreshToken, gen)
}

// beginRefresh atomically snapshots the refresh credential, moves to the
// Refreshing state, and returns the generation the pending result must
// match to be applied. It refuses when no session is present: a logout
// that completed first stays final.
func (m *Manager) beginRefresh() (string, uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return "", 0, domain.ErrNotAuthenticated
	}
	m.state = StateRefreshing
	return m.session.RefreshToken, m.gen, nil
}

// finishRefresh performs the exchange and applies the outcome, unless a
// login or logout superseded it while the call was in flight.
func (m *Manager) finishRefresh(ctx context.Context, refreshToken string, gen uint64) error {
	res, err := m.identity.Refresh(ctx, refreshToken)

	m.mu.Lock()
	if m.gen != gen {
		// Superseded; discard the result either way.
		m.mu.Unlock()
		return nil
	}
	if err != nil {
		m.session = nil
		m.state = StateUnauthenticated
		m.gen++
		m.mu.Unlock()

		if clearErr := m.clearStore(ctx); clearErr != nil {
			m.logger.Warn("failed to clear persisted session", "error", clearErr)
		}
		m.logger.Info("refresh failed, session cleared", "error", err)
		metrics.ObserveSessionOp("refresh", err)
		m.publish(domain.NewEvent(domain.RefreshFailedEvent, nil).WithError(err))
		return err
	}

	sess := &domain.Session{
		User:         res.User,
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		ExpiresAt:    res.AbsoluteExpiry(m.now()),
	}
	m.session = sess
	m.state = StateAuthenticated
	m.gen++
	newGen := m.gen
	m.mu.Unlock()

	if writeErr := m.persist(ctx, sess, newGen); writeErr != nil {
		m.logger.Error("failed to persist refreshed session", "error", writeErr)
		m.publish(domain.NewEvent(domain.StoreWriteFailedEvent, sess.User).WithError(writeErr))
	}
	metrics.ObserveSessionOp("refresh", nil)
	m.publish(domain.NewEvent(domain.RefreshedEvent, sess.User))
	return nil
}

// Revalidate re-reads the store and adopts whatever it holds, resolving
// multi-instance races by last-write-wins. Call it after any long
// suspension before trusting in-memory state; there is no distributed
// lock by design.
func (m *Manager) Revalidate(ctx context.Context) {
	sess, err := m.store.Read(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionAbsent) || errors.Is(err, domain.ErrStoreCorrupt) {
			m.clear()
		}
		// Store unavailable: keep the in-memory session rather than
		// logging the user out over a transient outage.
		return
	}
	m.install(sess)
}

func (m *Manager) install(sess *domain.Session) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = sess
	m.state = StateAuthenticated
	m.gen++
	return m.gen
}

// persist writes sess unless the operation that produced it has been
// superseded. A logout between the install and this write bumps the
// generation, so the stale record is dropped instead of overwriting the
// newer clear.
func (m *Manager) persist(ctx context.Context, sess *domain.Session, gen uint64) error {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	m.mu.RLock()
	superseded := m.gen != gen
	m.mu.RUnlock()
	if superseded {
		return nil
	}
	return m.store.Write(ctx, sess)
}

func (m *Manager) clearStore(ctx context.Context) error {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()
	return m.store.Clear(ctx)
}

func (m *Manager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.state = StateUnauthenticated
	m.gen++
}

// CurrentUser returns the current user, or nil when unauthenticated or
// expired. Pure read, no I/O.
func (m *Manager) CurrentUser() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Valid(m.now()) {
		return nil
	}
	return m.session.User
}

// CurrentToken returns the bearer token, or "" when unauthenticated or
// expired.
func (m *Manager) CurrentToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.session.Valid(m.now()) {
		return ""
	}
	return m.session.Token
}

// IsAuthenticated applies lazy invalidation: an expired session reads as
// logged out even before a refresh or logout runs.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Valid(m.now())
}

// IsApproved reports whether the current user's status is approved
func (m *Manager) IsApproved() bool {
	return m.CurrentUser().IsApproved()
}

// State returns the lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

var _ domain.SessionManager = (*Manager)(nil)
