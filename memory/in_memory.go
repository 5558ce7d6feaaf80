package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/socialmesh/core"
)

// InMemory is a process-local core.MemoryStore backed by a plain map.
//
// Concurrency: protected by RWMutex. Returned records are copies so callers
// cannot mutate stored state through them.
type InMemory struct {
	mu      sync.RWMutex
	records map[string]*core.MemoryRecord
	now     func() time.Time
}

var _ core.MemoryStore = (*InMemory)(nil)

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[string]*core.MemoryRecord),
		now:     time.Now,
	}
}

// Store creates (or replaces) the record under key with version 1.
func (m *InMemory) Store(_ context.Context, key string, data any, metadata map[string]any) (*core.MemoryRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := &core.MemoryRecord{
		Key:       key,
		Data:      data,
		Metadata:  cloneMetadata(metadata),
		Timestamp: m.now(),
		Version:   1,
	}
	m.records[key] = rec
	return copyRecord(rec), nil
}

// Retrieve returns the record for key or core.ErrNotFound.
func (m *InMemory) Retrieve(_ context.Context, key string) (*core.MemoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[key]
	if !ok {
		return nil, fmt.Errorf("memory key %q: %w", key, core.ErrNotFound)
	}
	return copyRecord(rec), nil
}

// Update bumps the version of an existing record or creates it with version 1.
func (m *InMemory) Update(_ context.Context, key string, data any, metadata map[string]any) (*core.MemoryRecord, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	version := 1
	if prev, ok := m.records[key]; ok {
		version = prev.Version + 1
	}
	rec := &core.MemoryRecord{
		Key:       key,
		Data:      data,
		Metadata:  cloneMetadata(metadata),
		Timestamp: m.now(),
		Version:   version,
	}
	m.records[key] = rec
	return copyRecord(rec), nil
}

// Delete removes the record for key.
func (m *InMemory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[key]; !ok {
		return fmt.Errorf("memory key %q: %w", key, core.ErrNotFound)
	}
	delete(m.records, key)
	return nil
}

// List returns records whose key starts with prefix, most recent first.
func (m *InMemory) List(_ context.Context, prefix string, limit int) ([]*core.MemoryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]*core.MemoryRecord, 0, len(m.records))
	for key, rec := range m.records {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		results = append(results, copyRecord(rec))
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].Key < results[j].Key
		}
		return results[i].Timestamp.After(results[j].Timestamp)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func cloneMetadata(md map[string]any) map[string]any {
	if md == nil {
		return nil
	}
	out := make(map[string]any, len(md))
	for k, v := range md {
		out[k] = v
	}
	return out
}

func copyRecord(rec *core.MemoryRecord) *core.MemoryRecord {
	cp := *rec
	cp.Metadata = cloneMetadata(rec.Metadata)
	if rec.Embedding != nil {
		cp.Embedding = append([]float64(nil), rec.Embedding...)
	}
	return &cp
}
