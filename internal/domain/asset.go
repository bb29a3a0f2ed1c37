package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssetRef identifies a token. Two AssetRefs describe the same asset
// iff Mint matches; Symbol and Decimals are descriptive.
type AssetRef struct {
	Mint     string // token mint address
	Symbol   string // display symbol (may be empty for unknown tokens)
	Decimals uint8  // smallest-unit scale (USDC is 6, SOL is 9)
}

// Same reports whether both refs identify the same asset.
func (a AssetRef) Same(other AssetRef) bool {
	return a.Mint == other.Mint
}

// RawAmount is an integer amount in an asset's smallest units (lamports,
// token base units). Raw and decimal amounts are distinct types so a value
// cannot be decimal-scaled twice.
type RawAmount int64

// Sign returns -1, 0 or 1.
func (r RawAmount) Sign() int {
	switch {
	case r < 0:
		return -1
	case r > 0:
		return 1
	default:
		return 0
	}
}

// Abs returns the absolute value.
func (r RawAmount) Abs() RawAmount {
	if r < 0 {
		return -r
	}
	return r
}

// Normalize converts the raw amount to a decimal amount using the asset's
// decimal count. This is the only raw-to-decimal conversion path in the
// codebase; it is applied exactly once per asset per classification.
func (r RawAmount) Normalize(decimals uint8) DecimalAmount {
	return DecimalAmount{value: decimal.New(int64(r), -int32(decimals))}
}

// DecimalAmount is an exact decimal-scaled amount. The zero value is zero.
// Construct via RawAmount.Normalize or ParseDecimalAmount; the wrapped
// decimal is deliberately inaccessible for further scaling.
type DecimalAmount struct {
	value decimal.Decimal
}

// ParseDecimalAmount parses a decimal string (config floors, DB round-trips).
func ParseDecimalAmount(s string) (DecimalAmount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return DecimalAmount{}, fmt.Errorf("parse decimal amount %q: %w", s, err)
	}
	return DecimalAmount{value: d}, nil
}

// MustDecimalAmount parses a decimal string and panics on failure.
// For static registry defaults and test fixtures only.
func MustDecimalAmount(s string) DecimalAmount {
	d, err := ParseDecimalAmount(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether the amount is zero.
func (d DecimalAmount) IsZero() bool {
	return d.value.IsZero()
}

// Abs returns the absolute value.
func (d DecimalAmount) Abs() DecimalAmount {
	return DecimalAmount{value: d.value.Abs()}
}

// Cmp compares d to other: -1 if d < other, 0 if equal, 1 if d > other.
func (d DecimalAmount) Cmp(other DecimalAmount) int {
	return d.value.Cmp(other.value)
}

// Equal reports whether two amounts represent the same value.
func (d DecimalAmount) Equal(other DecimalAmount) bool {
	return d.value.Equal(other.value)
}

// String returns the canonical decimal string without trailing zeros.
func (d DecimalAmount) String() string {
	return d.value.String()
}

// Float64 returns a float approximation for metrics and logs.
// Storage and comparisons must use the exact decimal form.
func (d DecimalAmount) Float64() float64 {
	f, _ := d.value.Float64()
	return f
}
