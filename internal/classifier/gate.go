package classifier

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// gate fast-fails transactions that cannot be swaps before any role
// assignment: pure transfers, single-sided or zero-value changes, same-asset
// round trips, and dust below the configured core-asset floor. Survivors are
// the non-zero deltas.
func (c *Classifier) gate(sig string, deltas []domain.NetDelta) ([]domain.NetDelta, *domain.Erasure) {
	if len(deltas) == 0 {
		return nil, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonSingleSidedChange,
			DebugContext: "no asset movement for swapper",
		}
	}

	onlyTransfers := true
	for _, d := range deltas {
		if d.Evidence.Has(domain.EvidenceBalance) || d.Evidence.Has(domain.EvidenceSwapAction) {
			onlyTransfers = false
			break
		}
	}
	if onlyTransfers {
		return nil, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonOnlyTransferActions,
			DebugContext: fmt.Sprintf("%d transfer-tier entries, no balance or swap evidence", len(deltas)),
		}
	}

	var nonZero []domain.NetDelta
	for _, d := range deltas {
		if d.SignedRaw != 0 {
			nonZero = append(nonZero, d)
		}
	}

	if len(nonZero) == 0 {
		// Apparent in/out legs cancelled. A single aggregated mint means
		// the transaction round-tripped one asset.
		if len(deltas) == 1 {
			return nil, &domain.Erasure{
				Signature:    sig,
				Reason:       domain.ReasonSameAssetNoOp,
				DebugContext: fmt.Sprintf("in/out legs cancel for %s", describeAsset(deltas[0].Asset)),
			}
		}
		return nil, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonSingleSidedChange,
			DebugContext: "all deltas are zero",
		}
	}

	if len(nonZero) == 1 {
		return nil, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonSingleSidedChange,
			DebugContext: fmt.Sprintf("only %s changed", describeAsset(nonZero[0].Asset)),
		}
	}

	sameSign := true
	for _, d := range nonZero[1:] {
		if d.SignedRaw.Sign() != nonZero[0].SignedRaw.Sign() {
			sameSign = false
			break
		}
	}
	if sameSign {
		return nil, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonSingleSidedChange,
			DebugContext: "no asset decreased while another increased",
		}
	}

	if er := c.checkMinimumValue(sig, nonZero); er != nil {
		return nil, er
	}

	return nonZero, nil
}

// checkMinimumValue rejects dust using the floor of the core-asset side.
// Trades with no core asset on either side have no floor to measure
// against and pass through unsized. Trades with more than two
// assets are left for the role assigner to reject.
func (c *Classifier) checkMinimumValue(sig string, nonZero []domain.NetDelta) *domain.Erasure {
	if len(nonZero) != 2 {
		return nil
	}

	var core *domain.NetDelta
	for i := range nonZero {
		asset, ok := c.registry.Lookup(nonZero[i].Asset.Mint)
		if !ok {
			continue
		}
		if core == nil {
			core = &nonZero[i]
			continue
		}
		// Both sides core: measure against the quote side (higher priority).
		prio, _ := c.registry.Priority(asset.Mint)
		corePrio, _ := c.registry.Priority(core.Asset.Mint)
		if prio < corePrio {
			core = &nonZero[i]
		}
	}
	if core == nil {
		return nil
	}

	coreAsset, _ := c.registry.Lookup(core.Asset.Mint)
	if coreAsset.MinValue.IsZero() {
		return nil
	}

	size := core.SignedRaw.Abs().Normalize(coreAsset.Decimals)
	if size.Cmp(coreAsset.MinValue) < 0 {
		return &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonBelowMinimumValue,
			DebugContext: fmt.Sprintf("%s %s below floor %s", size, coreAsset.Symbol, coreAsset.MinValue),
		}
	}
	return nil
}
