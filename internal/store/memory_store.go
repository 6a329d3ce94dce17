package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory RecordStore for tests and dry runs
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func memKey(model, name string) string {
	return model + "\x00" + nameKey(name)
}

func clone(rec *Record) *Record {
	c := *rec
	c.Data = copyData(rec.Data)
	return &c
}

// Create inserts a new record
func (s *MemoryStore) Create(ctx context.Context, model, name string, data map[string]interface{}) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey(model, name)
	if _, exists := s.records[key]; exists {
		return nil, duplicate("store.Create", model, name)
	}
	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.New().String(),
		Model:     model,
		Name:      strings.TrimSpace(name),
		Data:      copyData(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[key] = rec
	return clone(rec), nil
}

// Get returns the record or a NOT_FOUND error
func (s *MemoryStore) Get(ctx context.Context, model, name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[memKey(model, name)]
	if !ok {
		return nil, notFound("store.Get", model, name)
	}
	return clone(rec), nil
}

// Update sets one field of a record's data
func (s *MemoryStore) Update(ctx context.Context, model, name, field string, value interface{}) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[memKey(model, name)]
	if !ok {
		return nil, notFound("store.Update", model, name)
	}
	rec.Data[field] = value
	rec.UpdatedAt = time.Now().UTC()
	return clone(rec), nil
}

// Rename moves a record to newName
func (s *MemoryStore) Rename(ctx context.Context, model, name, newName, keyField string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey(model, name)
	rec, ok := s.records[key]
	if !ok {
		return nil, notFound("store.Rename", model, name)
	}
	newKey := memKey(model, newName)
	if _, taken := s.records[newKey]; taken && newKey != key {
		return nil, duplicate("store.Rename", model, newName)
	}

	rec.Name = strings.TrimSpace(newName)
	rec.Data[keyField] = rec.Name
	rec.UpdatedAt = time.Now().UTC()
	delete(s.records, key)
	s.records[newKey] = rec
	return clone(rec), nil
}

// Delete removes a record
func (s *MemoryStore) Delete(ctx context.Context, model, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memKey(model, name)
	if _, ok := s.records[key]; !ok {
		return notFound("store.Delete", model, name)
	}
	delete(s.records, key)
	return nil
}

// List returns a model's records ordered by name
func (s *MemoryStore) List(ctx context.Context, model string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for _, rec := range s.records {
		if rec.Model == model {
			out = append(out, clone(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return nameKey(out[i].Name) < nameKey(out[j].Name) })
	return out, nil
}

// Count returns the number of records of a model
func (s *MemoryStore) Count(ctx context.Context, model string) (int, error) {
	records, _ := s.List(ctx, model)
	return len(records), nil
}

// PingContext always succeeds
func (s *MemoryStore) PingContext(ctx context.Context) error { return nil }

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
