package session

import (
	"context"
	"sync"
	"time"
)

type Persister interface {
	Save(ctx context.Context, record Record) error
	// Load returns ErrNotFound for missing or expired records.
	Load(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
}

// Purger is implemented by persisters that need expired records removed explicitly.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type MemoryPersister struct {
	mu      sync.RWMutex
	records map[string]Record
	now     func() time.Time
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{records: make(map[string]Record), now: time.Now}
}

func (m *MemoryPersister) Save(_ context.Context, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = record
	return nil
}

func (m *MemoryPersister) Load(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[id]
	if !ok || record.Expired(m.now()) {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (m *MemoryPersister) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, id)
	return nil
}

func (m *MemoryPersister) PurgeExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	var purged int64
	for id, record := range m.records {
		if record.Expired(now) {
			delete(m.records, id)
			purged++
		}
	}
	return purged, nil
}
