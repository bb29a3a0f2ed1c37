package clickhouse

import (
	"context"
	"fmt"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

// SwapLogStore implements storage.SwapLogStore using ClickHouse.
// Amounts are logged as Float64: the analytics log feeds aggregates and
// dashboards, not accounting. The exact decimal values live in Postgres.
type SwapLogStore struct {
	conn *Conn
}

// NewSwapLogStore creates a new SwapLogStore.
func NewSwapLogStore(conn *Conn) *SwapLogStore {
	return &SwapLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SwapLogStore = (*SwapLogStore)(nil)

// InsertBulk appends legs observed at the given wall-clock time (ms).
func (s *SwapLogStore) InsertBulk(ctx context.Context, legs []*domain.ParsedSwap, observedAtMs int64) error {
	if len(legs) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO swap_log (
			observed_at_ms, signature, swapper, leg_role, direction,
			quote_mint, base_mint, quote_amount, base_amount, confidence
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, leg := range legs {
		err = batch.Append(
			uint64(observedAtMs),
			leg.Signature,
			leg.Swapper,
			string(leg.LegRole),
			string(leg.Direction),
			leg.QuoteAsset.Mint,
			leg.BaseAsset.Mint,
			leg.Amounts.QuoteAmount.Float64(),
			leg.Amounts.BaseAmount.Float64(),
			string(leg.Confidence),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// CountByConfidence returns leg counts per confidence level for entries
// observed within [startMs, endMs] (inclusive).
func (s *SwapLogStore) CountByConfidence(ctx context.Context, startMs, endMs int64) (map[domain.Confidence]uint64, error) {
	query := `
		SELECT confidence, count(*)
		FROM swap_log
		WHERE observed_at_ms >= ? AND observed_at_ms <= ?
		GROUP BY confidence
	`

	rows, err := s.conn.Query(ctx, query, uint64(startMs), uint64(endMs))
	if err != nil {
		return nil, fmt.Errorf("count by confidence: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Confidence]uint64)
	for rows.Next() {
		var (
			confidence string
			count      uint64
		)
		if err := rows.Scan(&confidence, &count); err != nil {
			return nil, fmt.Errorf("scan confidence count row: %w", err)
		}
		counts[domain.Confidence(confidence)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate confidence count rows: %w", err)
	}

	return counts, nil
}
