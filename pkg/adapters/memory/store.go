// Package memory provides an in-process HistoryStore.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aretw0/blackjack/pkg/domain"
	"github.com/aretw0/blackjack/pkg/history"
)

// Store implements ports.HistoryStore in memory.
// Trees are kept encoded so that callers never share nodes with the store.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save encodes the tree and keeps the bytes.
func (s *Store) Save(ctx context.Context, tableID string, root *history.Node) error {
	data, err := history.Marshal(root)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tableID] = data
	return nil
}

// Load decodes a fresh copy of the stored tree.
func (s *Store) Load(ctx context.Context, tableID string) (*history.Node, error) {
	s.mu.RLock()
	data, ok := s.data[tableID]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrTableNotFound
	}
	root, err := history.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal history: %w", err)
	}
	return root, nil
}

// Delete removes the table.
func (s *Store) Delete(ctx context.Context, tableID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, tableID)
	return nil
}

// List returns stored table IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tables := make([]string, 0, len(s.data))
	for id := range s.data {
		tables = append(tables, id)
	}
	slices.Sort(tables)
	return tables, nil
}
