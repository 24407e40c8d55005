package lock

import (
	"context"
	"sync"
)

type keyLock struct {
	ch   chan struct{}
	refs int
}

// LocalLocker is a keyed mutex. Entries are reference counted and removed
// once no goroutine holds or waits for the key.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
		var once sync.Once
		return func() error {
			once.Do(func() {
				<-kl.ch
				l.release(key, kl)
			})
			return nil
		}, nil
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (l *LocalLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
