package classifier

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// normalizeAmounts converts the role-assigned raw deltas to decimal amounts.
// Each asset is decimal-scaled exactly once, here and nowhere else: raw
// amounts arrive unscaled from the reconciler and the emitted decimals are
// never divided again downstream.
//
// When the quote side has both a balance-derived delta and a swap-action
// magnitude, the balance figure is the net (wallet-level, fee-inclusive)
// amount and the action figure is the gross protocol amount; both are
// emitted labeled, with QuoteAmount fixed to the net figure.
func normalizeAmounts(cat *assetCatalog, sig string, quote, base domain.NetDelta) (domain.SwapAmounts, *domain.Erasure) {
	quoteAsset, quoteKnown := cat.resolve(quote.Asset.Mint)
	baseAsset, baseKnown := cat.resolve(base.Asset.Mint)
	if !quoteKnown || !baseKnown {
		missing := quoteAsset.Mint
		if quoteKnown {
			missing = baseAsset.Mint
		}
		return domain.SwapAmounts{}, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonMalformedInput,
			DebugContext: fmt.Sprintf("decimals unknown for mint %s", missing),
		}
	}

	amounts := domain.SwapAmounts{
		BaseAmount:  base.SignedRaw.Abs().Normalize(baseAsset.Decimals),
		QuoteAmount: quote.SignedRaw.Abs().Normalize(quoteAsset.Decimals),
	}

	// Gross/net split requires both provenances on the quote side.
	if quote.Evidence.Has(domain.EvidenceBalance) && quote.ActionRaw != nil {
		gross := quote.ActionRaw.Abs().Normalize(quoteAsset.Decimals)
		net := amounts.QuoteAmount
		amounts.GrossQuoteAmount = &gross
		amounts.NetQuoteAmount = &net
	}

	return amounts, nil
}
