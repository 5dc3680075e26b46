package db

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Storage keys for the four persisted collections.
const (
	KeyReviews       = "reviews"
	KeyConfig        = "config"
	KeyWatchlist     = "watchlist"
	KeyAdminPassword = "admin_password"
)

// Record is one persisted collection: a JSON document under a fixed key.
// There is no versioning field; callers merge defaults after decoding.
type Record struct {
	Key   string `gorm:"primaryKey"`
	Value []byte
}

func (Record) TableName() string { return "kv_records" }

// Store is the key-value persistence shim backing the application state.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens the sqlite database at path, runs migrations, and returns a
// ready Store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: NewGormLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := RunMigrations(gdb, logger); err != nil {
		return nil, err
	}

	return &Store{db: gdb, logger: logger}, nil
}

// DB exposes the underlying gorm handle for health checks.
func (s *Store) DB() *gorm.DB { return s.db }

// Get returns the raw JSON value stored under key, or (nil, nil) when the key
// has never been written.
func (s *Store) Get(key string) ([]byte, error) {
	var rec Record
	if err := s.db.First(&rec, "key = ?", key).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return rec.Value, nil
}

// Set writes the full JSON value for key, replacing any previous value.
func (s *Store) Set(key string, value []byte) error {
	rec := Record{Key: key, Value: value}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
