// Package session provides an in-memory cache of unlocked DEKs.
//
// An unlocked DEK lives only in this cache, scoped to its user and evicted
// after a period of inactivity. Nothing here is ever persisted.
package session

import (
	"sync"
	"time"

	keysDomain "github.com/prayerbox/keyguard/internal/keys/domain"
)

// Cache holds unlocked DEKs keyed by user ID.
//
// Every successful read refreshes the user's inactivity timer. Locking a user
// (explicitly or by timeout) zeroes the cached key material before dropping it.
// Safe for concurrent use.
type Cache struct {
	mu          sync.Mutex
	idleTimeout time.Duration
	entries     map[string]*entry
}

type entry struct {
	dek   []byte
	timer *time.Timer
}

// NewCache creates a Cache with the given inactivity timeout.
// A zero or negative timeout disables automatic eviction.
func NewCache(idleTimeout time.Duration) *Cache {
	return &Cache{
		idleTimeout: idleTimeout,
		entries:     make(map[string]*entry),
	}
}

// Unlock stores a copy of the DEK for the user and starts the inactivity timer.
// A previous entry for the same user is zeroed and replaced.
func (c *Cache) Unlock(userID string, dek []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[userID]; ok {
		c.evictLocked(userID, old)
	}

	stored := make([]byte, len(dek))
	copy(stored, dek)

	e := &entry{dek: stored}
	if c.idleTimeout > 0 {
		e.timer = time.AfterFunc(c.idleTimeout, func() {
			c.Lock(userID)
		})
	}
	c.entries[userID] = e
}

// GetIfUnlocked returns a copy of the user's DEK if present, refreshing the
// inactivity timer. The second return value reports whether the user is unlocked.
func (c *Cache) GetIfUnlocked(userID string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}

	if e.timer != nil {
		e.timer.Reset(c.idleTimeout)
	}

	dek := make([]byte, len(e.dek))
	copy(dek, e.dek)
	return dek, true
}

// Lock zeroes and removes the user's DEK. Locking an already-locked user is a no-op.
func (c *Cache) Lock(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[userID]; ok {
		c.evictLocked(userID, e)
	}
}

// Close locks every user. Call during shutdown so no key material outlives the process.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for userID, e := range c.entries {
		c.evictLocked(userID, e)
	}
}

// evictLocked zeroes and removes an entry. Caller must hold c.mu.
func (c *Cache) evictLocked(userID string, e *entry) {
	if e.timer != nil {
		e.timer.Stop()
	}
	keysDomain.Zero(e.dek)
	delete(c.entries, userID)
}
