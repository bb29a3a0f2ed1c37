// Package classifier turns raw, third-party-supplied transaction payloads
// into canonical swap records or typed rejections. Classification is a pure
// synchronous function of its input: no I/O, no shared state, no caching,
// safe to call from any number of goroutines.
package classifier

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/registry"
)

// Classifier classifies one transaction per call. The core asset registry is
// injected configuration; the classifier holds no other state.
type Classifier struct {
	registry *registry.Registry
}

// New creates a classifier backed by the given core asset registry.
func New(reg *registry.Registry) *Classifier {
	return &Classifier{registry: reg}
}

// Result is the classifier output: exactly one field is non-nil.
type Result struct {
	Swap    *domain.ParsedSwap
	Pair    *domain.SplitSwapPair
	Erasure *domain.Erasure
}

// Accepted reports whether the transaction classified as a swap.
func (r Result) Accepted() bool {
	return r.Erasure == nil
}

// Legs returns the emitted swap records: one for a direct swap, two for a
// split pair, none for an erasure. Pair legs are returned individually so
// downstream consumers handle a single shape.
func (r Result) Legs() []domain.ParsedSwap {
	switch {
	case r.Swap != nil:
		return []domain.ParsedSwap{*r.Swap}
	case r.Pair != nil:
		return r.Pair.Legs()
	default:
		return nil
	}
}

// Classify runs the full pipeline on one payload:
// normalize -> reconcile -> gate -> roles -> amounts -> (split) -> score.
// Deterministic and idempotent: the same payload always yields byte-identical
// output.
func (c *Classifier) Classify(p *TransactionPayload) Result {
	tx, er := normalize(p)
	if er != nil {
		return erase(er)
	}

	cat := buildCatalog(c.registry, tx)
	deltas := reconcile(c.registry, cat, tx)

	survivors, er := c.gate(tx.Signature, deltas)
	if er != nil {
		return erase(er)
	}

	roles, er := c.assignRoles(tx.Signature, survivors)
	if er != nil {
		return erase(er)
	}

	if roles.Split {
		pair, er := c.synthesizeSplit(cat, tx, roles.Quote, roles.Base)
		if er != nil {
			return erase(er)
		}
		return Result{Pair: pair}
	}

	amounts, er := normalizeAmounts(cat, tx.Signature, roles.Quote, roles.Base)
	if er != nil {
		return erase(er)
	}

	swap := &domain.ParsedSwap{
		Signature:       tx.Signature,
		Swapper:         tx.Swapper,
		LegRole:         domain.LegRoleSingle,
		Direction:       direction(roles.Base),
		QuoteAsset:      mustResolve(cat, roles.Quote.Asset.Mint),
		BaseAsset:       mustResolve(cat, roles.Base.Asset.Mint),
		Amounts:         amounts,
		Confidence:      scoreConfidence(roles.Base, roles.Quote),
		EvidenceSummary: fmt.Sprintf("base=%s quote=%s", roles.Base.Evidence, roles.Quote.Evidence),
	}
	return Result{Swap: swap}
}

// erase wraps an erasure as a Result. The assembler is the only place that
// constructs externally-visible results.
func erase(er *domain.Erasure) Result {
	return Result{Erasure: er}
}

// mustResolve fetches a catalog entry that normalizeAmounts already
// validated.
func mustResolve(cat *assetCatalog, mint string) domain.AssetRef {
	asset, _ := cat.resolve(mint)
	return asset
}
