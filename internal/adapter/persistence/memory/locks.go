package memory

import (
	"context"
	"sync"
)

// keyLocks is a set of named mutexes whose acquisition honors ctx.
type keyLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyLocks() *keyLocks {
	return &keyLocks{slots: make(map[string]chan struct{})}
}

func (k *keyLocks) slot(key string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()
	ch, ok := k.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.slots[key] = ch
	}
	return ch
}

func (k *keyLocks) acquire(ctx context.Context, key string) error {
	select {
	case k.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *keyLocks) release(key string) {
	<-k.slot(key)
}
