package classifier

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// synthesizeSplit decomposes a trade between two non-core assets into two
// canonical legs routed through the registry's native pivot. The pivot is
// never observed on-chain for the swapper, so both legs carry only their
// base-side amount: fabricating a quote size without a balance or action to
// back it would poison every downstream dollar figure. For the same reason
// the minimum-value floor, re-checked here per the gate's hand-off, has
// nothing to measure against and the pair always sizes through.
func (c *Classifier) synthesizeSplit(cat *assetCatalog, tx *domain.RawTransaction, lost, gained domain.NetDelta) (*domain.SplitSwapPair, *domain.Erasure) {
	lostAsset, lostKnown := cat.resolve(lost.Asset.Mint)
	gainedAsset, gainedKnown := cat.resolve(gained.Asset.Mint)
	if !lostKnown || !gainedKnown {
		missing := lostAsset.Mint
		if lostKnown {
			missing = gainedAsset.Mint
		}
		return nil, &domain.Erasure{
			Signature:    tx.Signature,
			Reason:       domain.ReasonMalformedInput,
			DebugContext: fmt.Sprintf("decimals unknown for mint %s", missing),
		}
	}

	pivot := c.registry.Native().AssetRef
	confidence := scoreConfidence(lost, gained)

	dispose := domain.ParsedSwap{
		Signature:  tx.Signature,
		Swapper:    tx.Swapper,
		LegRole:    domain.LegRoleDispose,
		Direction:  domain.DirectionDispose,
		QuoteAsset: pivot,
		BaseAsset:  lostAsset,
		Amounts: domain.SwapAmounts{
			BaseAmount: lost.SignedRaw.Abs().Normalize(lostAsset.Decimals),
		},
		Confidence:      confidence,
		EvidenceSummary: fmt.Sprintf("base=%s quote=SYNTHESIZED", lost.Evidence),
	}

	acquire := domain.ParsedSwap{
		Signature:  tx.Signature,
		Swapper:    tx.Swapper,
		LegRole:    domain.LegRoleAcquire,
		Direction:  domain.DirectionAcquire,
		QuoteAsset: pivot,
		BaseAsset:  gainedAsset,
		Amounts: domain.SwapAmounts{
			BaseAmount: gained.SignedRaw.Abs().Normalize(gainedAsset.Decimals),
		},
		Confidence:      confidence,
		EvidenceSummary: fmt.Sprintf("base=%s quote=SYNTHESIZED", gained.Evidence),
	}

	return &domain.SplitSwapPair{
		Signature:  tx.Signature,
		DisposeLeg: dispose,
		AcquireLeg: acquire,
	}, nil
}
