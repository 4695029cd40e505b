// Package storage persists the session between CLI runs in a local SQLite
// file. It implements session.Storage.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const MemoryPath = ":memory:"

type Entry struct {
	Key       string     `gorm:"column:entry_key;primaryKey"`
	Value     string     `gorm:"not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (Entry) TableName() string { return "entries" }

type Store struct {
	db   *gorm.DB
	seal *sealer
	now  func() time.Time
}

type Option func(*Store) error

// WithSecret seals every stored value with a key derived from secret.
// An empty secret leaves values in plain text.
func WithSecret(secret string) Option {
	return func(s *Store) error {
		if secret == "" {
			return nil
		}
		sl, err := newSealer([]byte(secret))
		if err != nil {
			return err
		}
		s.seal = sl
		return nil
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		s.now = now
		return nil
	}
}

// SQLite allows a single writer, and every connection to :memory: would
// open its own database.
func configurePool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
}

func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("state path is empty")
	}
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping state db: %w", err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate state db: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	for _, o := range opts {
		if err := o(s); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("entry_key = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}

	if e.ExpiresAt != nil && !s.now().Before(*e.ExpiresAt) {
		if err := s.Delete(ctx, key); err != nil {
			return "", false, err
		}
		return "", false, nil
	}

	v := e.Value
	if s.seal != nil {
		if v, err = s.seal.unbox(v); err != nil {
			return "", false, fmt.Errorf("get %s: %w", key, err)
		}
	}
	return v, true, nil
}

// Set stores value under key. A positive ttl makes the entry expire.
func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := Entry{Key: key, Value: value}
	if ttl > 0 {
		exp := s.now().Add(ttl).UTC()
		e.ExpiresAt = &exp
	}
	if s.seal != nil {
		sealed, err := s.seal.box(value)
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		e.Value = sealed
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("entry_key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete %v: %w", keys, err)
	}
	return nil
}

// PurgeExpired drops every expired entry and reports how many went.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", s.now().UTC()).Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge expired: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
