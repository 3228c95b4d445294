package usecase

import "sync"

// userLocks serializes rewrap operations per user without holding a global
// lock across users. Entries are reference counted and removed when idle.
type userLocks struct {
	mu      sync.Mutex
	entries map[string]*userLockEntry
}

type userLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{entries: make(map[string]*userLockEntry)}
}

// Lock acquires the per-user lock, creating it on first use.
func (u *userLocks) Lock(userID string) {
	u.mu.Lock()
	e, ok := u.entries[userID]
	if !ok {
		e = &userLockEntry{}
		u.entries[userID] = e
	}
	e.refs++
	u.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the per-user lock and drops the entry once unused.
func (u *userLocks) Unlock(userID string) {
	u.mu.Lock()
	e := u.entries[userID]
	e.refs--
	if e.refs == 0 {
		delete(u.entries, userID)
	}
	u.mu.Unlock()

	e.mu.Unlock()
}
