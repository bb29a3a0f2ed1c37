package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

// ParsedSwapStore is an in-memory implementation of storage.ParsedSwapStore.
type ParsedSwapStore struct {
	mu   sync.RWMutex
	data map[string]*domain.ParsedSwap // keyed by composite key
}

// NewParsedSwapStore creates a new in-memory parsed swap store.
func NewParsedSwapStore() *ParsedSwapStore {
	return &ParsedSwapStore{
		data: make(map[string]*domain.ParsedSwap),
	}
}

// swapKey generates a unique key for a classified leg.
func swapKey(signature string, legRole domain.LegRole) string {
	return fmt.Sprintf("%s|%s", signature, legRole)
}

// Insert adds a single classified leg. Returns ErrDuplicateKey if exists.
func (s *ParsedSwapStore) Insert(_ context.Context, swap *domain.ParsedSwap) error {
	if swap == nil || swap.Signature == "" || !swap.LegRole.IsValid() {
		return storage.ErrInvalidInput
	}

	key := swapKey(swap.Signature, swap.LegRole)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *swap
	s.data[key] = &copy
	return nil
}

// InsertPair adds both legs of a split pair atomically.
func (s *ParsedSwapStore) InsertPair(_ context.Context, pair *domain.SplitSwapPair) error {
	if pair == nil || pair.Signature == "" {
		return storage.ErrInvalidInput
	}
	legs := pair.Legs()
	for i := range legs {
		if legs[i].Signature != pair.Signature || !legs[i].LegRole.IsValid() {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: reject the whole pair if either key exists.
	for i := range legs {
		if _, exists := s.data[swapKey(legs[i].Signature, legs[i].LegRole)]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for i := range legs {
		copy := legs[i]
		s.data[swapKey(copy.Signature, copy.LegRole)] = &copy
	}
	return nil
}

// GetBySignature retrieves all legs for a signature, dispose before acquire.
func (s *ParsedSwapStore) GetBySignature(_ context.Context, signature string) ([]*domain.ParsedSwap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ParsedSwap
	for _, swap := range s.data {
		if swap.Signature == signature {
			copy := *swap
			result = append(result, &copy)
		}
	}

	sortLegs(result)
	return result, nil
}

// GetBySwapper retrieves all legs for a swapper wallet.
func (s *ParsedSwapStore) GetBySwapper(_ context.Context, swapper string) ([]*domain.ParsedSwap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ParsedSwap
	for _, swap := range s.data {
		if swap.Swapper == swapper {
			copy := *swap
			result = append(result, &copy)
		}
	}

	sortLegs(result)
	return result, nil
}

// GetByBaseMint retrieves all legs whose base asset is the given mint.
func (s *ParsedSwapStore) GetByBaseMint(_ context.Context, mint string) ([]*domain.ParsedSwap, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ParsedSwap
	for _, swap := range s.data {
		if swap.BaseAsset.Mint == mint {
			copy := *swap
			result = append(result, &copy)
		}
	}

	sortLegs(result)
	return result, nil
}

// legRoleRank orders SINGLE, then DISPOSE_LEG, then ACQUIRE_LEG.
func legRoleRank(r domain.LegRole) int {
	switch r {
	case domain.LegRoleSingle:
		return 0
	case domain.LegRoleDispose:
		return 1
	default:
		return 2
	}
}

func sortLegs(legs []*domain.ParsedSwap) {
	sort.Slice(legs, func(i, j int) bool {
		if legs[i].Signature != legs[j].Signature {
			return legs[i].Signature < legs[j].Signature
		}
		return legRoleRank(legs[i].LegRole) < legRoleRank(legs[j].LegRole)
	})
}

var _ storage.ParsedSwapStore = (*ParsedSwapStore)(nil)
