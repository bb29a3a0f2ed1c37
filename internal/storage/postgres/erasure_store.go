package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

// ErasureStore implements storage.ErasureStore using PostgreSQL.
type ErasureStore struct {
	pool *Pool
}

// NewErasureStore creates a new ErasureStore.
func NewErasureStore(pool *Pool) *ErasureStore {
	return &ErasureStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ErasureStore = (*ErasureStore)(nil)

// Insert adds a new erasure. Returns ErrDuplicateKey if signature exists.
func (s *ErasureStore) Insert(ctx context.Context, e *domain.Erasure) error {
	if e == nil || e.Signature == "" || !e.Reason.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO erasures (signature, reason, debug_context)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query, e.Signature, string(e.Reason), e.DebugContext)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert erasure: %w", err)
	}
	return nil
}

// GetBySignature retrieves the erasure for a transaction.
// Returns ErrNotFound if not exists.
func (s *ErasureStore) GetBySignature(ctx context.Context, signature string) (*domain.Erasure, error) {
	query := `
		SELECT signature, reason, debug_context
		FROM erasures
		WHERE signature = $1
	`

	var (
		e      domain.Erasure
		reason string
	)
	err := s.pool.QueryRow(ctx, query, signature).Scan(&e.Signature, &reason, &e.DebugContext)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get erasure by signature: %w", err)
	}

	e.Reason = domain.ReasonCode(reason)
	return &e, nil
}

// GetByReason retrieves all erasures with a given reason, ordered by signature.
func (s *ErasureStore) GetByReason(ctx context.Context, reason domain.ReasonCode) ([]*domain.Erasure, error) {
	query := `
		SELECT signature, reason, debug_context
		FROM erasures
		WHERE reason = $1
		ORDER BY signature ASC
	`

	rows, err := s.pool.Query(ctx, query, string(reason))
	if err != nil {
		return nil, fmt.Errorf("get erasures by reason: %w", err)
	}
	defer rows.Close()

	return scanErasures(rows)
}

// scanErasures scans multiple rows into a slice of Erasure.
func scanErasures(rows pgx.Rows) ([]*domain.Erasure, error) {
	var erasures []*domain.Erasure

	for rows.Next() {
		var (
			e      domain.Erasure
			reason string
		)
		if err := rows.Scan(&e.Signature, &reason, &e.DebugContext); err != nil {
			return nil, fmt.Errorf("scan erasure row: %w", err)
		}
		e.Reason = domain.ReasonCode(reason)
		erasures = append(erasures, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate erasure rows: %w", err)
	}

	return erasures, nil
}
