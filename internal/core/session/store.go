package session

import (
	"sync"
	"time"
)

// Entry is the transient wizard state between the upload and analyze steps.
type Entry struct {
	Token     string
	Station   string
	FilePath  string
	FileName  string
	CreatedAt time.Time
}

// Store holds wizard entries in memory, keyed by token. Entries older than
// the TTL are collected by Purge; callers own the cleanup of any temp file
// an expired entry points at.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
}

// NewStore creates a store whose entries expire after ttl. A zero ttl
// disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]Entry),
		ttl:     ttl,
	}
}

// Put registers a wizard entry under its token.
func (s *Store) Put(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.Token] = e
}

// Get looks up an entry by token.
func (s *Store) Get(token string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	return e, ok
}

// Delete removes and returns the entry for token.
func (s *Store) Delete(token string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	if ok {
		delete(s.entries, token)
	}
	return e, ok
}

// Purge removes expired entries and returns them so the caller can clean up
// their stored files.
func (s *Store) Purge() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return nil
	}

	var expired []Entry
	now := time.Now()
	for token, e := range s.entries {
		if now.Sub(e.CreatedAt) > s.ttl {
			expired = append(expired, e)
			delete(s.entries, token)
		}
	}
	return expired
}

// Len reports the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
