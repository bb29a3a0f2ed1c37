package memory

import (
	"context"
	"sort"
	"sync"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

// ErasureStore is an in-memory implementation of storage.ErasureStore.
type ErasureStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Erasure // keyed by signature
}

// NewErasureStore creates a new in-memory erasure store.
func NewErasureStore() *ErasureStore {
	return &ErasureStore{
		data: make(map[string]*domain.Erasure),
	}
}

// Insert adds a new erasure. Returns ErrDuplicateKey if signature exists.
func (s *ErasureStore) Insert(_ context.Context, e *domain.Erasure) error {
	if e == nil || e.Signature == "" || !e.Reason.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[e.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *e
	s.data[e.Signature] = &copy
	return nil
}

// GetBySignature retrieves the erasure for a transaction.
func (s *ErasureStore) GetBySignature(_ context.Context, signature string) (*domain.Erasure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.data[signature]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *e
	return &copy, nil
}

// GetByReason retrieves all erasures with a given reason, ordered by signature.
func (s *ErasureStore) GetByReason(_ context.Context, reason domain.ReasonCode) ([]*domain.Erasure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Erasure
	for _, e := range s.data {
		if e.Reason == reason {
			copy := *e
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Signature < result[j].Signature
	})

	return result, nil
}

var _ storage.ErasureStore = (*ErasureStore)(nil)
