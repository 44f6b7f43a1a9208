// Package cache implements the in-memory store for fetched readings.
//
// Expiry is lazy: an entry is checked against the TTL only when its key is
// read. There is no background sweeper, so Size and Stats count entries that
// are past their TTL but have not been read since. Key cardinality is one
// entry per calendar date in practice, which keeps the map small without any
// eviction policy beyond expiry.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is how long a fetched reading stays servable.
const DefaultTTL = time.Hour

// Entry is a cached reading. Entries are immutable once written: Timestamp
// marks write time and is never refreshed on read, so the TTL measures from
// creation rather than last access.
type Entry struct {
	Data      string
	Timestamp time.Time
	Date      string
}

// EntryStat describes one entry in a Stats snapshot. Age is whole seconds
// since the entry was written.
type EntryStat struct {
	Key  string `json:"key"`
	Date string `json:"date"`
	Age  int64  `json:"age"`
}

// Stats is a point-in-time snapshot of the store.
type Stats struct {
	Size    int
	TTL     time.Duration
	Hits    int64
	Misses  int64
	Entries []EntryStat
}

// Store maps a date key to the reading fetched for it.
type Store struct {
	mu  sync.RWMutex
	ttl time.Duration

	entries map[string]*Entry

	hits   int64
	misses int64
}

// NewStore creates an empty store. ttl <= 0 selects DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		entries: make(map[string]*Entry),
	}
}

// Get looks up key. An entry older than the TTL is deleted and reported
// absent. A valid entry is returned unchanged.
func (s *Store) Get(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return nil, false
	}

	if time.Since(e.Timestamp) > s.ttl {
		delete(s.entries, key)
		s.misses++
		return nil, false
	}

	s.hits++
	return e, true
}

// Put inserts or overwrites the entry for key with a fresh timestamp. A
// later write for the same key replaces the previous entry wholesale, so its
// age measures from the newest write.
func (s *Store) Put(key, data string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &Entry{
		Data:      data,
		Timestamp: time.Now(),
		Date:      key,
	}
}

// Clear removes all entries. Hit and miss counters survive a clear.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*Entry)
}

// Size returns the raw map cardinality, including entries past their TTL
// that have not been read since.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// TTL returns the expiry window applied to every entry.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Stats returns a snapshot of the store. Unlike Get it never evicts, so
// expired-but-unread entries appear in the result.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Size:    len(s.entries),
		TTL:     s.ttl,
		Hits:    s.hits,
		Misses:  s.misses,
		Entries: make([]EntryStat, 0, len(s.entries)),
	}

	now := time.Now()
	for key, e := range s.entries {
		st.Entries = append(st.Entries, EntryStat{
			Key:  key,
			Date: e.Date,
			Age:  int64(now.Sub(e.Timestamp).Round(time.Second) / time.Second),
		})
	}
	return st
}
