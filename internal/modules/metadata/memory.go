package metadata

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps metadata in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]VaultMetadata
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]VaultMetadata)}
}

// Get implements Store
func (s *MemoryStore) Get(ctx context.Context, vaultAddress string) (*VaultMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.items[Key(vaultAddress)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, vaultAddress)
	}
	c := m.clone()
	return &c, nil
}

// Set implements Store
func (s *MemoryStore) Set(ctx context.Context, meta VaultMetadata) error {
	key := Key(meta.VaultAddress)
	if key == "" {
		return fmt.Errorf("vault address is required")
	}

	s.mu.Lock()
	s.items[key] = meta.clone()
	s.mu.Unlock()
	return nil
}

// Batch implements Store
func (s *MemoryStore) Batch(ctx context.Context, vaultAddresses []string) (map[string]VaultMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]VaultMetadata, len(vaultAddresses))
	for _, addr := range vaultAddresses {
		if m, ok := s.items[Key(addr)]; ok {
			out[addr] = m.clone()
		}
	}
	return out, nil
}
