// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package credstore

import (
	"sync"

	"github.com/shabaraba/holecard/internal/holeerr"
)

// memoryGateway is an in-process [Gateway] used by tests in place of a
// real OS credential store, and optionally as a fallback when no platform
// backend is available. It is safe for concurrent use.
type memoryGateway struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemory returns a [Gateway] backed by an in-process map. It never
// returns [holeerr.ErrKeyringDenied]; Set/Get/Delete only ever fail with
// [holeerr.ErrNotFound] where documented.
func NewMemory() Gateway {
	return &memoryGateway{items: make(map[string][]byte)}
}

func (m *memoryGateway) Get(account string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.items[account]
	if !ok {
		return nil, holeerr.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *memoryGateway) Set(account string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(value))
	copy(cp, value)
	m.items[account] = cp
	return nil
}

func (m *memoryGateway) Delete(account string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, account)
	return nil
}

func (m *memoryGateway) Exists(account string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[account]
	return ok, nil
}
