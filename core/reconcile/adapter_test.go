package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// record is the test model.
type record struct {
	Provider   string
	ExternalID string
	Name       string
	SyncedAt   time.Time
}

// memoryAdapter is an in-memory adapter with injectable failures.
type memoryAdapter struct {
	mu       sync.Mutex
	store    map[Key]record
	failKeys map[Key]bool
	indexErr error
	upserts  int
	onUpsert func()
}

func newMemoryAdapter() *memoryAdapter {
	return &memoryAdapter{
		store:    make(map[Key]record),
		failKeys: make(map[Key]bool),
	}
}

func (m *memoryAdapter) Name() string { return "memory" }

func (m *memoryAdapter) LoadIndex(_ context.Context, keys []Key) (map[Key]Item, error) {
	if m.indexErr != nil {
		return nil, m.indexErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	index := make(map[Key]Item)
	for _, k := range keys {
		if r, ok := m.store[k]; ok {
			index[k] = r
		}
	}
	return index, nil
}

func (m *memoryAdapter) ExtractKey(item Item) Key {
	r := item.(record)
	return Key{Provider: r.Provider, ExternalID: r.ExternalID}
}

func (m *memoryAdapter) CompareFields(persisted, incoming Item) []string {
	p, in := persisted.(record), incoming.(record)
	if p.Name != in.Name {
		return []string{fmt.Sprintf("name: old=%s new=%s", p.Name, in.Name)}
	}
	return nil
}

func (m *memoryAdapter) SyncedAt(item Item) time.Time {
	return item.(record).SyncedAt
}

func (m *memoryAdapter) Upsert(_ context.Context, item Item, syncedAt time.Time) error {
	r := item.(record)
	k := m.ExtractKey(r)
	if m.onUpsert != nil {
		m.onUpsert()
	}
	if m.failKeys[k] {
		return errors.New("transient write failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	r.SyncedAt = syncedAt
	m.store[k] = r
	m.upserts++
	return nil
}

func (m *memoryAdapter) get(provider, id string) (record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.store[Key{Provider: provider, ExternalID: id}]
	return r, ok
}

func rec(provider, id, name string) record {
	return record{Provider: provider, ExternalID: id, Name: name}
}

func batchOf(records ...record) []Item {
	items := make([]Item, len(records))
	for i, r := range records {
		items[i] = r
	}
	return items
}
