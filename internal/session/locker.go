package session

import (
	"sync"
	"time"
)

// Locker serializes message processing per conversation to prevent race
// conditions when multiple webhook deliveries arrive simultaneously for the
// same phone number.
type Locker struct {
	mu      sync.Mutex
	mutexes map[string]*conversationLock
}

type conversationLock struct {
	mu       sync.Mutex
	lastUsed time.Time
}

func NewLocker() *Locker {
	return &Locker{
		mutexes: make(map[string]*conversationLock),
	}
}

// WithLock executes fn while holding the per-conversation mutex. Concurrent
// deliveries for the same key are serialized; different keys run in parallel.
func (l *Locker) WithLock(key string, fn func() error) error {
	l.mu.Lock()
	cl, ok := l.mutexes[key]
	if !ok {
		cl = &conversationLock{}
		l.mutexes[key] = cl
	}
	l.mu.Unlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	cl.lastUsed = time.Now()
	return fn()
}

// Cleanup removes locks not used within maxAge to prevent memory leaks.
func (l *Locker) Cleanup(maxAge time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, cl := range l.mutexes {
		if now.Sub(cl.lastUsed) > maxAge {
			delete(l.mutexes, key)
		}
	}
}
