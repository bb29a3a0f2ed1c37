package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/idhash"
	"solana-swap-classifier/internal/storage"
)

// ParsedSwapStore implements storage.ParsedSwapStore using PostgreSQL.
// Decimal amounts are stored as NUMERIC and round-trip through their
// canonical string form, so no precision is lost.
type ParsedSwapStore struct {
	pool *Pool
}

// NewParsedSwapStore creates a new ParsedSwapStore.
func NewParsedSwapStore(pool *Pool) *ParsedSwapStore {
	return &ParsedSwapStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ParsedSwapStore = (*ParsedSwapStore)(nil)

const insertParsedSwapQuery = `
	INSERT INTO parsed_swaps (
		record_id, signature, swapper, leg_role, direction,
		quote_mint, quote_symbol, quote_decimals,
		base_mint, base_symbol, base_decimals,
		quote_amount, base_amount, gross_quote_amount, net_quote_amount,
		confidence, evidence_summary
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

const selectParsedSwapColumns = `
	SELECT signature, swapper, leg_role, direction,
		quote_mint, quote_symbol, quote_decimals,
		base_mint, base_symbol, base_decimals,
		quote_amount::text, base_amount::text,
		gross_quote_amount::text, net_quote_amount::text,
		confidence, evidence_summary
	FROM parsed_swaps
`

// Insert adds a single classified leg. Returns ErrDuplicateKey if
// (signature, leg_role) exists.
func (s *ParsedSwapStore) Insert(ctx context.Context, swap *domain.ParsedSwap) error {
	if swap == nil || swap.Signature == "" || !swap.LegRole.IsValid() {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, insertParsedSwapQuery, parsedSwapArgs(swap)...)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert parsed swap: %w", err)
	}
	return nil
}

// InsertPair adds both legs of a split pair atomically.
func (s *ParsedSwapStore) InsertPair(ctx context.Context, pair *domain.SplitSwapPair) error {
	if pair == nil || pair.Signature == "" {
		return storage.ErrInvalidInput
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, leg := range pair.Legs() {
		if leg.Signature != pair.Signature || !leg.LegRole.IsValid() {
			return storage.ErrInvalidInput
		}
		if _, err := tx.Exec(ctx, insertParsedSwapQuery, parsedSwapArgs(&leg)...); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert pair leg %s: %w", leg.LegRole, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetBySignature retrieves all legs for a signature, dispose before acquire.
func (s *ParsedSwapStore) GetBySignature(ctx context.Context, signature string) ([]*domain.ParsedSwap, error) {
	query := selectParsedSwapColumns + `
		WHERE signature = $1
		ORDER BY CASE leg_role WHEN 'SINGLE' THEN 0 WHEN 'DISPOSE_LEG' THEN 1 ELSE 2 END
	`

	rows, err := s.pool.Query(ctx, query, signature)
	if err != nil {
		return nil, fmt.Errorf("get parsed swaps by signature: %w", err)
	}
	defer rows.Close()

	return scanParsedSwaps(rows)
}

// GetBySwapper retrieves all legs for a swapper wallet.
func (s *ParsedSwapStore) GetBySwapper(ctx context.Context, swapper string) ([]*domain.ParsedSwap, error) {
	query := selectParsedSwapColumns + `
		WHERE swapper = $1
		ORDER BY signature ASC, leg_role ASC
	`

	rows, err := s.pool.Query(ctx, query, swapper)
	if err != nil {
		return nil, fmt.Errorf("get parsed swaps by swapper: %w", err)
	}
	defer rows.Close()

	return scanParsedSwaps(rows)
}

// GetByBaseMint retrieves all legs whose base asset is the given mint.
func (s *ParsedSwapStore) GetByBaseMint(ctx context.Context, mint string) ([]*domain.ParsedSwap, error) {
	query := selectParsedSwapColumns + `
		WHERE base_mint = $1
		ORDER BY signature ASC, leg_role ASC
	`

	rows, err := s.pool.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("get parsed swaps by base mint: %w", err)
	}
	defer rows.Close()

	return scanParsedSwaps(rows)
}

// parsedSwapArgs flattens a leg into insert arguments.
func parsedSwapArgs(swap *domain.ParsedSwap) []any {
	var gross, net *string
	if swap.Amounts.GrossQuoteAmount != nil {
		v := swap.Amounts.GrossQuoteAmount.String()
		gross = &v
	}
	if swap.Amounts.NetQuoteAmount != nil {
		v := swap.Amounts.NetQuoteAmount.String()
		net = &v
	}

	return []any{
		idhash.ComputeSwapRecordID(swap.Signature, swap.LegRole),
		swap.Signature,
		swap.Swapper,
		string(swap.LegRole),
		string(swap.Direction),
		swap.QuoteAsset.Mint,
		swap.QuoteAsset.Symbol,
		int16(swap.QuoteAsset.Decimals),
		swap.BaseAsset.Mint,
		swap.BaseAsset.Symbol,
		int16(swap.BaseAsset.Decimals),
		swap.Amounts.QuoteAmount.String(),
		swap.Amounts.BaseAmount.String(),
		gross,
		net,
		string(swap.Confidence),
		swap.EvidenceSummary,
	}
}

// scanParsedSwaps scans multiple rows into a slice of ParsedSwap.
func scanParsedSwaps(rows pgx.Rows) ([]*domain.ParsedSwap, error) {
	var swaps []*domain.ParsedSwap

	for rows.Next() {
		var (
			swap          domain.ParsedSwap
			legRole       string
			direction     string
			confidence    string
			quoteDecimals int16
			baseDecimals  int16
			quoteAmount   string
			baseAmount    string
			grossQuote    *string
			netQuote      *string
		)

		err := rows.Scan(
			&swap.Signature,
			&swap.Swapper,
			&legRole,
			&direction,
			&swap.QuoteAsset.Mint,
			&swap.QuoteAsset.Symbol,
			&quoteDecimals,
			&swap.BaseAsset.Mint,
			&swap.BaseAsset.Symbol,
			&baseDecimals,
			&quoteAmount,
			&baseAmount,
			&grossQuote,
			&netQuote,
			&confidence,
			&swap.EvidenceSummary,
		)
		if err != nil {
			return nil, fmt.Errorf("scan parsed swap row: %w", err)
		}

		swap.LegRole = domain.LegRole(legRole)
		swap.Direction = domain.Direction(direction)
		swap.Confidence = domain.Confidence(confidence)
		swap.QuoteAsset.Decimals = uint8(quoteDecimals)
		swap.BaseAsset.Decimals = uint8(baseDecimals)

		if swap.Amounts.QuoteAmount, err = domain.ParseDecimalAmount(quoteAmount); err != nil {
			return nil, fmt.Errorf("parse quote amount: %w", err)
		}
		if swap.Amounts.BaseAmount, err = domain.ParseDecimalAmount(baseAmount); err != nil {
			return nil, fmt.Errorf("parse base amount: %w", err)
		}
		if grossQuote != nil {
			v, err := domain.ParseDecimalAmount(*grossQuote)
			if err != nil {
				return nil, fmt.Errorf("parse gross quote amount: %w", err)
			}
			swap.Amounts.GrossQuoteAmount = &v
		}
		if netQuote != nil {
			v, err := domain.ParseDecimalAmount(*netQuote)
			if err != nil {
				return nil, fmt.Errorf("parse net quote amount: %w", err)
			}
			swap.Amounts.NetQuoteAmount = &v
		}

		swaps = append(swaps, &swap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parsed swap rows: %w", err)
	}

	return swaps, nil
}
