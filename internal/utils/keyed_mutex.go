package utils

import "sync"

// KeyedMutex provides one mutex per string key. Submissions of the same
// master id and refreshes of the same mirror window must not interleave,
// while distinct keys proceed in parallel.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty lock table.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the mutex for key, creating it on first use.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

// Unlock releases the mutex for key and drops it once nobody is waiting.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if ok {
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		l.mu.Unlock()
	}
}

// TryLock attempts to acquire the mutex for key without blocking. It reports
// whether the lock was acquired.
func (k *KeyedMutex) TryLock(key string) bool {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	if !l.mu.TryLock() {
		k.mu.Unlock()
		return false
	}
	l.refs++
	k.mu.Unlock()
	return true
}
