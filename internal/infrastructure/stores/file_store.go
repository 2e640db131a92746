package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kalindafab/eventease-auth/domain"
)

// sessionRecord is the single-row table backing FileStore
type sessionRecord struct {
	Key  string `gorm:"primaryKey;column:key"`
	Data []byte `gorm:"column:data"`
}

func (sessionRecord) TableName() string { return "sessions" }

// FileStore implements domain.SessionStore on a local SQLite file, the
// single-process durable analog of the browser's localStorage.
type FileStore struct {
	db  *gorm.DB
	key string
}

// NewFileStore creates the store and migrates its table
func NewFileStore(db *gorm.DB, key string) (*FileStore, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session table: %w", err)
	}
	return &FileStore{db: db, key: key}, nil
}

// Write implements domain.SessionStore
func (s *FileStore) Write(ctx context.Context, session *domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	rec := sessionRecord{Key: s.key, Data: data}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Read implements domain.SessionStore
func (s *FileStore) Read(ctx context.Context) (*domain.Session, error) {
	var rec sessionRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", s.key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionAbsent
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var session domain.Session
	if err := json.Unmarshal(rec.Data, &session); err != nil {
		s.db.WithContext(ctx).Delete(&sessionRecord{}, "key = ?", s.key)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreCorrupt, err)
	}
	if session.User == nil || session.Token == "" {
		s.db.WithContext(ctx).Delete(&sessionRecord{}, "key = ?", s.key)
		return nil, domain.ErrStoreCorrupt
	}
	return &session, nil
}

// Clear implements domain.SessionStore
func (s *FileStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Delete(&sessionRecord{}, "key = ?", s.key).Error
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

var _ domain.SessionStore = (*FileStore)(nil)
