package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	page    []byte
	expires time.Time
}

// Memory is an in-process PageCache. It only serves a single server
// instance, and only mutations made through that instance invalidate it;
// use Redis when running more than one or when invoicectl writes too.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	gens    map[string]uint64
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		gens:    make(map[string]uint64),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, path string) ([]byte, uint64, bool) {
	m.mu.RLock()
	e, ok := m.entries[path]
	gen := m.gens[path]
	m.mu.RUnlock()

	if !ok {
		return nil, gen, false
	}
	if !m.now().Before(e.expires) {
		m.mu.Lock()
		// re-check: a concurrent Set may have refreshed it
		if cur, ok := m.entries[path]; ok && !m.now().Before(cur.expires) {
			delete(m.entries, path)
		}
		m.mu.Unlock()
		return nil, gen, false
	}
	return e.page, gen, true
}

func (m *Memory) Set(_ context.Context, path string, gen uint64, page []byte) (bool, error) {
	buf := make([]byte, len(page))
	copy(buf, page)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.gens[path] != gen {
		return false, nil
	}
	m.entries[path] = memoryEntry{page: buf, expires: m.now().Add(m.ttl)}
	return true, nil
}

func (m *Memory) Revalidate(_ context.Context, path string) error {
	m.mu.Lock()
	delete(m.entries, path)
	m.gens[path]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
	return nil
}
