package otp

import (
	"sync"
	"time"
)

// Entry is a pending one-time code for a single phone number.
type Entry struct {
	Code      string
	ExpiresAt time.Time
	Attempts  int
}

// Store holds pending codes keyed by normalized phone number. It is injected
// into the dispatcher so a distributed cache can replace the in-process map
// for multi-instance deployments.
type Store interface {
	Get(phone string) (*Entry, bool)
	Set(phone string, entry *Entry)
	Delete(phone string)
}

// MemoryStore is the in-process Store: a mutex-guarded map with a background
// sweep that drops expired entries which were never consulted again.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its cleanup routine.
func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*Entry),
		stop:    make(chan struct{}),
	}
	go s.sweepLoop(sweepInterval)
	return s
}

func (s *MemoryStore) Get(phone string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[phone]
	if !ok {
		return nil, false
	}
	// Copy so callers mutate nothing until they Set.
	cp := *entry
	return &cp, true
}

func (s *MemoryStore) Set(phone string, entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *entry
	s.entries[phone] = &cp
}

func (s *MemoryStore) Delete(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, phone)
}

// Len reports the number of live entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}

// Close stops the cleanup routine.
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(time.Now())
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for phone, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, phone)
		}
	}
}
