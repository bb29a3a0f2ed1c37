// Package registry holds the configurable table of core (reference) assets
// that swaps are quoted against. It is injected into the classifier as
// explicit configuration, never consulted as global state.
package registry

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// Well-known mainnet mint addresses.
const (
	WSOLMint    = "So11111111111111111111111111111111111111112"
	USDCMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	USDTMint    = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	MSOLMint    = "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So"
	JitoSOLMint = "J1toso1uCk3RLmjorhTtrVwY9HJ7X8V9yYac6Y7kGCPn"
	WBTCMint    = "3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh"
	WETHMint    = "7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs"
)

// CoreAsset is one reference asset plus its minimum-value floor.
type CoreAsset struct {
	domain.AssetRef
	// MinValue is the dust floor in the asset's own units; a swap whose
	// core-quoted size falls below it is rejected. Zero disables the check.
	MinValue domain.DecimalAmount
}

// Registry is an ordered set of core assets. Order is priority: when both
// sides of a trade are core, the earlier asset becomes the quote; the first
// entry is the native coin and the pivot for split synthesis.
type Registry struct {
	ordered []CoreAsset
	byMint  map[string]int // mint -> index in ordered
}

// New builds a registry from an ordered asset list.
func New(assets []CoreAsset) (*Registry, error) {
	if len(assets) == 0 {
		return nil, fmt.Errorf("registry requires at least one core asset")
	}
	byMint := make(map[string]int, len(assets))
	for i, a := range assets {
		if a.Mint == "" {
			return nil, fmt.Errorf("core asset %d: empty mint", i)
		}
		if _, exists := byMint[a.Mint]; exists {
			return nil, fmt.Errorf("duplicate core asset mint %s", a.Mint)
		}
		byMint[a.Mint] = i
	}
	return &Registry{ordered: assets, byMint: byMint}, nil
}

// Default returns the mainnet registry: SOL first (pivot), then the major
// stables, liquid-staked SOL variants and wrapped majors. Floors are small
// dust thresholds in each asset's own units.
func Default() *Registry {
	r, err := New([]CoreAsset{
		{AssetRef: domain.AssetRef{Mint: WSOLMint, Symbol: "SOL", Decimals: 9}, MinValue: domain.MustDecimalAmount("0.001")},
		{AssetRef: domain.AssetRef{Mint: USDCMint, Symbol: "USDC", Decimals: 6}, MinValue: domain.MustDecimalAmount("0.1")},
		{AssetRef: domain.AssetRef{Mint: USDTMint, Symbol: "USDT", Decimals: 6}, MinValue: domain.MustDecimalAmount("0.1")},
		{AssetRef: domain.AssetRef{Mint: MSOLMint, Symbol: "mSOL", Decimals: 9}, MinValue: domain.MustDecimalAmount("0.001")},
		{AssetRef: domain.AssetRef{Mint: JitoSOLMint, Symbol: "JitoSOL", Decimals: 9}, MinValue: domain.MustDecimalAmount("0.001")},
		{AssetRef: domain.AssetRef{Mint: WBTCMint, Symbol: "WBTC", Decimals: 8}, MinValue: domain.MustDecimalAmount("0.000005")},
		{AssetRef: domain.AssetRef{Mint: WETHMint, Symbol: "WETH", Decimals: 8}, MinValue: domain.MustDecimalAmount("0.0001")},
	})
	if err != nil {
		panic(err) // static table, cannot fail
	}
	return r
}

// IsCore reports whether the mint is a reference asset.
func (r *Registry) IsCore(mint string) bool {
	_, ok := r.byMint[mint]
	return ok
}

// Lookup returns the core asset for a mint.
func (r *Registry) Lookup(mint string) (CoreAsset, bool) {
	i, ok := r.byMint[mint]
	if !ok {
		return CoreAsset{}, false
	}
	return r.ordered[i], true
}

// Priority returns the priority index for a mint; lower wins quote role.
func (r *Registry) Priority(mint string) (int, bool) {
	i, ok := r.byMint[mint]
	return i, ok
}

// Native returns the first registry entry: the native coin and the
// synthesized pivot for split swaps.
func (r *Registry) Native() CoreAsset {
	return r.ordered[0]
}

// Assets returns the ordered core asset list.
func (r *Registry) Assets() []CoreAsset {
	out := make([]CoreAsset, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// WithMinValues returns a copy of the registry with floor overrides applied,
// keyed by symbol, each value in the asset's own units. Overrides for symbols
// not in the registry are an error to surface config typos.
func (r *Registry) WithMinValues(overrides map[string]string) (*Registry, error) {
	if len(overrides) == 0 {
		return r, nil
	}

	bySymbol := make(map[string]int, len(r.ordered))
	for i, a := range r.ordered {
		bySymbol[a.Symbol] = i
	}

	assets := make([]CoreAsset, len(r.ordered))
	copy(assets, r.ordered)
	for symbol, value := range overrides {
		i, ok := bySymbol[symbol]
		if !ok {
			return nil, fmt.Errorf("min value override for unknown core asset %q", symbol)
		}
		v, err := domain.ParseDecimalAmount(value)
		if err != nil {
			return nil, fmt.Errorf("min value override for %s: %w", symbol, err)
		}
		assets[i].MinValue = v
	}
	return New(assets)
}
