package repositories

import (
	"sort"
	"strings"
	"sync"
)

// LockOrder returns the account numbers sorted and de-duplicated. Every
// multi-account lock is taken in this order so two transfers over the same
// pair can never wait on each other.
func LockOrder(accountNumbers []string) []string {
	ids := make([]string, 0, len(accountNumbers))
	seen := make(map[string]struct{}, len(accountNumbers))
	for _, id := range accountNumbers {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// accountLocks hands out one mutex per account number. Entries are
// reference counted and dropped once nobody holds or waits for them.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*accountLock)}
}

// acquire locks every account in canonical order and returns the release func.
// Map keys are private copies: an entry can outlive the caller's string.
func (l *accountLocks) acquire(accountNumbers []string) func() {
	ids := LockOrder(accountNumbers)
	for i, id := range ids {
		ids[i] = strings.Clone(id)
	}
	held := make([]*accountLock, 0, len(ids))
	for _, id := range ids {
		lock := l.ref(id)
		lock.mu.Lock()
		held = append(held, lock)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.unref(ids[i])
		}
	}
}

func (l *accountLocks) ref(id string) *accountLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &accountLock{}
		l.locks[id] = lock
	}
	lock.refs++
	return lock
}

func (l *accountLocks) unref(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[id]
	if !ok {
		return
	}
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, id)
	}
}
