package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/cluesheet/engine"
)

// Memory keeps encoded records in process. Records are stored encoded so a
// caller's later changes never leak into the store.
type Memory struct {
	records map[uuid.UUID][]byte
	mu      sync.RWMutex
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[uuid.UUID][]byte),
	}
}

// Save stores rec under id.
func (s *Memory) Save(_ context.Context, id uuid.UUID, rec engine.Record) error {
	data, err := encode(rec)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = data
	return nil
}

// Load returns the record saved under id.
func (s *Memory) Load(_ context.Context, id uuid.UUID) (engine.Record, error) {
	s.mu.RLock()
	data, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		return engine.Record{}, ErrNotFound
	}
	return decode(data)
}

// Delete removes the record saved under id.
func (s *Memory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Len returns the number of stored records.
func (s *Memory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
