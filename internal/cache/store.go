package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/FelipePatitucci/cursor-quiz/internal/logging"
)

const dateLayout = "2006-01-02"

// Entry is the on-disk document layout: the cached payload plus the date
// it was written. Freshness is computed in whole days, so an entry stays
// valid for the remainder of its creation day plus ttlDays-1 full days.
type Entry struct {
	Payload     json.RawMessage `json:"payload"`
	LastUpdated string          `json:"last_updated"`
}

// Store persists one JSON document per key under a single directory.
// Unreadable or corrupt files are treated as cache misses, never errors.
type Store struct {
	dir     string
	ttlDays int
	now     func() time.Time
}

func NewStore(dir string, ttlDays int) *Store {
	return &Store{dir: dir, ttlDays: ttlDays, now: time.Now}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the cached payload for key if present and still fresh.
// A stale, missing or corrupt entry reports a miss.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		logging.Warn("discarding corrupt cache file", err, logging.Fields{"key": key})
		return nil, false
	}
	written, err := time.Parse(dateLayout, e.LastUpdated)
	if err != nil {
		logging.Warn("discarding cache file with bad timestamp", err, logging.Fields{"key": key})
		return nil, false
	}
	if daysBetween(written, s.now()) >= s.ttlDays {
		return nil, false
	}
	return e.Payload, true
}

// Put overwrites the document for key, stamping it with today's date.
// The store directory is created on demand.
func (s *Store) Put(key string, payload json.RawMessage) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	e := Entry{Payload: payload, LastUpdated: s.now().Format(dateLayout)}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), b, 0o644)
}

// daysBetween counts calendar days from a to b, ignoring the time of day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
