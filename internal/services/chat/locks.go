// File: internal/services/chat/locks.go
package chat

import "sync"

// chatLocks hands out one mutex per chat id. Entries are dropped once no
// caller holds or waits on them.
type chatLocks struct {
	mu    sync.Mutex
	locks map[string]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

func newChatLocks() *chatLocks {
	return &chatLocks{locks: make(map[string]*chatLock)}
}

// Lock blocks until chatID is free and returns the matching unlock func.
func (l *chatLocks) Lock(chatID string) func() {
	l.mu.Lock()
	lk, ok := l.locks[chatID]
	if !ok {
		lk = &chatLock{}
		l.locks[chatID] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, chatID)
		}
		l.mu.Unlock()
	}
}

func (l *chatLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
