package draft

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type record struct {
	Key     string `gorm:"primaryKey;column:key"`
	Payload []byte `gorm:"column:payload"`
	SavedAt time.Time
}

func (record) TableName() string {
	return "drafts"
}

// Store persists draft snapshots in a local sqlite database so an
// interrupted session can be resumed later.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open creates or opens the sqlite database at path and migrates the
// drafts table
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate draft store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Save overwrites the snapshot stored under key
func (s *Store) Save(key string, snap *Snapshot) error {
	snap.SavedAt = time.Now()
	payload, err := Encode(snap)
	if err != nil {
		return err
	}
	rec := record{Key: key, Payload: payload, SavedAt: snap.SavedAt}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	s.logger.Debug("Draft saved", zap.String("key", key))
	return nil
}

// Take returns the snapshot stored under key and deletes it, so a draft
// is restored at most once. Corrupt or unsupported payloads are deleted
// silently and reported as absent.
func (s *Store) Take(key string) (*Snapshot, bool, error) {
	var rec record
	err := s.db.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load draft: %w", err)
	}
	if err := s.delete(key); err != nil {
		return nil, false, err
	}
	snap, err := Decode(rec.Payload)
	if err != nil {
		s.logger.Warn("Discarding unreadable draft", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	return snap, true, nil
}

// Exists reports whether a snapshot is stored under key without consuming it
func (s *Store) Exists(key string) (bool, error) {
	var count int64
	if err := s.db.Model(&record{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check draft: %w", err)
	}
	return count > 0, nil
}

// Delete removes the snapshot stored under key, if any
func (s *Store) Delete(key string) error {
	return s.delete(key)
}

func (s *Store) delete(key string) error {
	if err := s.db.Delete(&record{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
