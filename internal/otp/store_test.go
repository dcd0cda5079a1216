package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(time.Hour)
	t.Cleanup(s.Close)
	return s
}

func TestMemoryStoreSetGet(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.Get("+971501234567")
	assert.False(t, ok)

	entry := &Entry{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	s.Set("+971501234567", entry)

	got, ok := s.Get("+971501234567")
	require.True(t, ok)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, 0, got.Attempts)
}

func TestMemoryStoreCopiesEntries(t *testing.T) {
	s := newTestStore(t)

	entry := &Entry{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	s.Set("+971501234567", entry)

	// Mutating the caller's copy must not touch the stored entry.
	entry.Code = "000000"
	got, _ := s.Get("+971501234567")
	assert.Equal(t, "123456", got.Code)

	// Mutating a Get result must not either.
	got.Attempts = 99
	again, _ := s.Get("+971501234567")
	assert.Equal(t, 0, again.Attempts)
}

func TestMemoryStoreOverwriteAndDelete(t *testing.T) {
	s := newTestStore(t)

	s.Set("+971501234567", &Entry{Code: "111111", ExpiresAt: time.Now().Add(time.Minute), Attempts: 2})
	s.Set("+971501234567", &Entry{Code: "222222", ExpiresAt: time.Now().Add(time.Minute)})

	got, ok := s.Get("+971501234567")
	require.True(t, ok)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, 0, got.Attempts)
	assert.Equal(t, 1, s.Len())

	s.Delete("+971501234567")
	_, ok = s.Get("+971501234567")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStoreSweepDropsExpired(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	s.Set("expired", &Entry{Code: "111111", ExpiresAt: now.Add(-time.Minute)})
	s.Set("live", &Entry{Code: "222222", ExpiresAt: now.Add(time.Minute)})

	s.sweep(now)

	_, ok := s.Get("expired")
	assert.False(t, ok)
	_, ok = s.Get("live")
	assert.True(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(time.Hour)
	s.Close()
	s.Close()
}
