package store_test

import (
	"context"
	"errors"
	"sync"
)

// memPersistence keeps collection snapshots in a map. failSave makes
// every Save fail, to exercise the post-commit IOError path.
type memPersistence struct {
	mu       sync.Mutex
	saved    map[string]any
	failSave bool
}

var errSaveFailed = errors.New("disk full")

func newMemPersistence() *memPersistence {
	return &memPersistence{saved: make(map[string]any)}
}

func (m *memPersistence) Load(_ context.Context, collection string, v any) error {
	return nil
}

func (m *memPersistence) Save(_ context.Context, collection string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errSaveFailed
	}
	m.saved[collection] = v
	return nil
}
