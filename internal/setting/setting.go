// Package setting stores system-wide settings as key/value rows with an
// in-process read cache.
package setting

import (
	"context"
	"log"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyUserEmailShouldBeConfirmed toggles the sign-up confirmation handshake.
const KeyUserEmailShouldBeConfirmed = "userEmailShouldBeConfirmed"

type Setting struct {
	Key   string `gorm:"primaryKey;size:128" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

// Store reads settings through a cache populated by Load and kept current by
// Set. Reads during requests never hit the database.
type Store struct {
	db    *gorm.DB
	mu    sync.RWMutex
	cache map[string]string
}

func NewStore(d *gorm.DB) *Store {
	return &Store{db: d, cache: map[string]string{}}
}

// Migrate creates the settings table.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&Setting{})
}

// Init migrates the settings table against the shared connection, fatally on
// failure, matching the other feature Init functions.
func (s *Store) Init() {
	if err := Migrate(s.db); err != nil {
		log.Fatal("Failed to auto-migrate settings table: ", err)
	}
	if err := s.Load(context.Background()); err != nil {
		log.Fatal("Failed to load settings: ", err)
	}
}

// Load replaces the cache with the current table contents.
func (s *Store) Load(ctx context.Context) error {
	var rows []Setting
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return err
	}

	fresh := make(map[string]string, len(rows))
	for _, row := range rows {
		fresh[row.Key] = row.Value
	}

	s.mu.Lock()
	s.cache = fresh
	s.mu.Unlock()
	return nil
}

// Get returns the cached value for key, or "" when unset.
func (s *Store) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache[key]
}

// GetBool interprets the cached value as a boolean; anything but "true" and
// "1" is false.
func (s *Store) GetBool(key string) bool {
	v := s.Get(key)
	return v == "true" || v == "1"
}

// Set writes through to the database and updates the cache.
func (s *Store) Set(ctx context.Context, key, value string) error {
	row := Setting{Key: key, Value: value}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}
