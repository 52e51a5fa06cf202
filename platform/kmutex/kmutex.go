// Package kmutex provides per-key mutual exclusion.
// This is part of the platform layer and contains no business logic.
package kmutex

import "sync"

// KMutex serializes work per key while leaving different keys
// uncontended. Entries are reference counted and removed once the last
// holder releases, so the map does not grow with the key space.
type KMutex struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// New creates an empty keyed mutex.
func New() *KMutex {
	return &KMutex{entries: make(map[int64]*entry)}
}

// Lock acquires the mutex for the given key, blocking until available.
func (k *KMutex) Lock(key int64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for the given key.
func (k *KMutex) Unlock(key int64) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("kmutex: unlock of unlocked key")
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
