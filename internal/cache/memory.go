package cache

import (
	"context"       // Store interface contract
	"encoding/json" // JSON encoding/decoding
	"sync"          // Mutex for concurrent access
	"time"          // TTL bookkeeping
)

// memoryEntry holds one cached payload with its expiry deadline.
type memoryEntry struct {
	data      []byte    // JSON-serialized payload
	expiresAt time.Time // Zero means no expiry
}

// MemoryStore is an in-process Store used when no Redis address is
// configured, and in tests. Expiry is passive: entries are checked on read,
// never swept.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time // Injected clock, real time by default
}

// NewMemoryStore returns an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached value for key, dropping it if expired.
func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok {
		return false, nil // Key does not exist
	}
	// Passive expiry check on read
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, key)
		return false, nil
	}
	return true, json.Unmarshal(entry.data, dest)
}

// Set stores value under key with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: b}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Delete removes the given keys; missing keys are ignored.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
