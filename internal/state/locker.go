package state

import "sync"

// Locker serialises work per key. Entries are dropped once no goroutine
// holds or waits for them.
type Locker struct {
	mutex sync.Mutex
	keys  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker {
	return &Locker{keys: make(map[string]*lockEntry)}
}

func (l *Locker) Lock(key string) {
	l.mutex.Lock()
	e, exists := l.keys[key]
	if !exists {
		e = &lockEntry{}
		l.keys[key] = e
	}
	e.refs++
	l.mutex.Unlock()

	e.mu.Lock()
}

func (l *Locker) Unlock(key string) {
	l.mutex.Lock()
	e, exists := l.keys[key]
	if !exists {
		l.mutex.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
	l.mutex.Unlock()

	e.mu.Unlock()
}

func (l *Locker) size() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.keys)
}
