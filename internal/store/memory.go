// Package store persists finalized measurements. The memory store is the
// reference implementation of the persistence contract: hosts with real
// storage swap in their own and the core never owns the persisted list.
package store

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/draftbench/takeoff/pkg/models"
)

// ErrNotFound is returned for ids the store has never seen or has deleted.
var ErrNotFound = errors.New("measurement not found")

// MemoryStore keeps measurements in a mutex-guarded map. Saving is cheap and
// synchronous here, but callers treat it as fire-and-forget either way: a
// drawing session never blocks on persistence.
type MemoryStore struct {
	mu           sync.Mutex
	measurements map[string]models.Measurement
	now          func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		measurements: make(map[string]models.Measurement),
		now:          time.Now,
	}
}

// Save stores a measurement and returns its id, assigning one if the
// measurement arrived without.
func (s *MemoryStore) Save(m models.Measurement) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if _, exists := s.measurements[m.ID]; exists {
		return "", fmt.Errorf("measurement %s already saved", m.ID)
	}
	m.UpdatedAt = s.now()
	s.measurements[m.ID] = m
	return m.ID, nil
}

// Update replaces a stored measurement, e.g. after a cutout attach.
func (s *MemoryStore) Update(id string, m models.Measurement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.measurements[id]; !exists {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	m.ID = id
	m.UpdatedAt = s.now()
	s.measurements[id] = m
	return nil
}

// Delete removes a measurement.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.measurements[id]; !exists {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(s.measurements, id)
	return nil
}

// Get fetches one measurement by id.
func (s *MemoryStore) Get(id string) (models.Measurement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.measurements[id]
	if !exists {
		return models.Measurement{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return m, nil
}

// QueryByPage returns every measurement on a page, oldest first.
func (s *MemoryStore) QueryByPage(pageNum int) []models.Measurement {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Measurement
	for _, m := range s.measurements {
		if m.PageNum == pageNum {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}
