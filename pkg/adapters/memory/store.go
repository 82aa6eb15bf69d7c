// Package memory implements core.Store in process memory.
// It is used for dry runs and tests; nothing survives a restart.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/partledger/pkg/core"
)

// Store keeps the last saved snapshot in memory.
type Store struct {
	mu      sync.RWMutex
	records []core.PurchaseRecord
	saveErr error
}

// New creates a store pre-populated with seed.
func New(seed ...core.PurchaseRecord) *Store {
	return &Store{records: slices.Clone(seed)}
}

func (s *Store) Load(_ context.Context) ([]core.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.records == nil {
		return []core.PurchaseRecord{}, nil
	}
	return slices.Clone(s.records), nil
}

func (s *Store) Save(_ context.Context, records []core.PurchaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.records = slices.Clone(records)
	return nil
}

// FailSaves makes every subsequent Save return err. Pass nil to recover.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Snapshot returns the persisted records.
func (s *Store) Snapshot() []core.PurchaseRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.records)
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}
