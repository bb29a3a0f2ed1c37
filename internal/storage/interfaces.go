package storage

import (
	"context"

	"solana-swap-classifier/internal/domain"
)

// ParsedSwapStore provides access to parsed_swaps storage.
// Records are keyed by (signature, leg_role): a direct swap stores one
// SINGLE record, a split pair stores a DISPOSE_LEG and an ACQUIRE_LEG.
type ParsedSwapStore interface {
	// Insert adds a single classified leg. Returns ErrDuplicateKey if
	// (signature, leg_role) exists.
	Insert(ctx context.Context, s *domain.ParsedSwap) error

	// InsertPair adds both legs of a split pair atomically. Fails the whole
	// pair on any duplicate.
	InsertPair(ctx context.Context, p *domain.SplitSwapPair) error

	// GetBySignature retrieves all legs stored for a transaction signature,
	// ordered dispose before acquire. Empty slice if none.
	GetBySignature(ctx context.Context, signature string) ([]*domain.ParsedSwap, error)

	// GetBySwapper retrieves all legs for a swapper wallet, ordered by
	// signature then leg role.
	GetBySwapper(ctx context.Context, swapper string) ([]*domain.ParsedSwap, error)

	// GetByBaseMint retrieves all legs whose base asset is the given mint,
	// ordered by signature then leg role.
	GetByBaseMint(ctx context.Context, mint string) ([]*domain.ParsedSwap, error)
}

// ErasureStore provides access to erasures storage. One record per rejected
// transaction, keyed by signature.
type ErasureStore interface {
	// Insert adds a new erasure. Returns ErrDuplicateKey if signature exists.
	Insert(ctx context.Context, e *domain.Erasure) error

	// GetBySignature retrieves the erasure for a transaction.
	// Returns ErrNotFound if not exists.
	GetBySignature(ctx context.Context, signature string) (*domain.Erasure, error)

	// GetByReason retrieves all erasures with a given reason code.
	GetByReason(ctx context.Context, reason domain.ReasonCode) ([]*domain.Erasure, error)
}

// SwapLogStore is the append-only analytics log of classified legs.
// Unlike ParsedSwapStore it has no uniqueness contract; replayed
// transactions may append the same leg twice.
type SwapLogStore interface {
	// InsertBulk appends legs observed at the given wall-clock time (ms).
	InsertBulk(ctx context.Context, legs []*domain.ParsedSwap, observedAtMs int64) error

	// CountByConfidence returns leg counts per confidence level for entries
	// observed within [startMs, endMs] (inclusive).
	CountByConfidence(ctx context.Context, startMs, endMs int64) (map[domain.Confidence]uint64, error)
}
