// Package store is the entity repository for the pill tracker. Each
// collection is persisted wholesale as one JSON blob under a fixed key in the
// key-value store; every write replaces the entire collection. Single writer
// only.
package store

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/sadopc/pilltrack/internal/kv"
)

// Collection keys in the key-value store. These names are shared with the
// export/import snapshot format and must not change.
const (
	keyPills          = "pills"
	keyPillIntakes    = "pillIntakes"
	keyDailySchedules = "dailySchedules"
	keyPillPacks      = "pillPacks"
)

type Store struct {
	db *kv.DB

	lastID int64 // uniqueness guard for time-derived ids
}

// New wraps an opened key-value store. The caller owns the db handle and is
// responsible for closing it.
func New(db *kv.DB) *Store {
	return &Store{db: db}
}

// newID returns a time-derived id, strictly increasing so that two records
// created within the same clock tick still get distinct ids.
func (s *Store) newID() string {
	id := time.Now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

// load unmarshals the collection stored under key into dst. An absent key
// leaves dst untouched (callers start from an empty slice).
func (s *Store) load(key string, dst any) error {
	raw, ok, err := s.db.Get(key)
	if err != nil {
		return &StorageError{Op: "load " + key, Err: err}
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &StorageError{Op: "decode " + key, Err: err}
	}
	return nil
}

// save replaces the collection stored under key.
func (s *Store) save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &StorageError{Op: "encode " + key, Err: err}
	}
	if err := s.db.Set(key, raw); err != nil {
		return &StorageError{Op: "save " + key, Err: err}
	}
	return nil
}
