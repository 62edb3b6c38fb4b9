package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process memory. Contents vanish on
// restart; use it for development, tests, and single-shot servers.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Get retrieves a stored graph by name.
func (s *MemoryStore) Get(ctx context.Context, name string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[name]
	if !ok {
		return nil, ErrNotFound
	}
	// Hand out a copy so callers cannot mutate the stored bookkeeping.
	out := *rec
	return &out, nil
}

// Put stores a record, replacing any previous version under the same
// name and keeping the original CreatedAt.
func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	if existing, ok := s.records[rec.Name]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	s.records[rec.Name] = &stored
	return nil
}

// Delete removes a stored graph.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[name]; !ok {
		return ErrNotFound
	}
	delete(s.records, name)
	return nil
}

// List returns the stored names in lexical order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close does nothing; there is no backend to release.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
