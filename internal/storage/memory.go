package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Spectre-arbitrage/cykura-mevbot/internal/model"
)

// MemoryStore keeps position records in process. It backs tests and
// file-mode runs where no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]model.PositionRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]model.PositionRecord)}
}

func (s *MemoryStore) GetPosition(_ context.Context, id string) (model.PositionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	return record, ok, nil
}

func (s *MemoryStore) UpsertPositions(_ context.Context, records []model.PositionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		s.records[record.ID] = record
	}
	return nil
}

// Snapshot returns all records ordered by ID for deterministic output.
func (s *MemoryStore) Snapshot() []model.PositionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.PositionRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
