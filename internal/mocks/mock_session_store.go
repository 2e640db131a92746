package mocks

import (
	"context"
	"sync"

	"github.com/kalindafab/eventease-auth/domain"
)

// MockSessionStore implements domain.SessionStore for testing. Without
// overrides it behaves as an in-memory store holding one record.
type MockSessionStore struct {
	WriteFunc func(ctx context.Context, session *domain.Session) error
	ReadFunc  func(ctx context.Context) (*domain.Session, error)
	ClearFunc func(ctx context.Context) error

	mu     sync.Mutex
	stored *domain.Session
	Writes int
	Clears int
}

// NewMockSessionStore creates an empty in-memory store
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{}
}

// Seed installs a record directly, bypassing Write counting
func (m *MockSessionStore) Seed(session *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = session
}

// Stored returns the current record
func (m *MockSessionStore) Stored() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored
}

// Write replaces the stored record
func (m *MockSessionStore) Write(ctx context.Context, session *domain.Session) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = session
	m.Writes++
	return nil
}

// Read returns the stored record
func (m *MockSessionStore) Read(ctx context.Context) (*domain.Session, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return nil, domain.ErrSessionAbsent
	}
	return m.stored, nil
}

// Clear removes the stored record
func (m *MockSessionStore) Clear(ctx context.Context) error {
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = nil
	m.Clears++
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionStore = (*MockSessionStore)(nil)
