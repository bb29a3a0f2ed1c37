package classifier

import "solana-swap-classifier/internal/domain"

// scoreConfidence maps the evidence on the contributing deltas to a tier.
//
//   - HIGH: every side carries swap-action evidence whose sign agrees with
//     the balance-derived direction.
//   - LOW: any side rests solely on transfer-action fallback, or a swap
//     action contradicts the balance-derived sign.
//   - MEDIUM: balance-only but mutually consistent evidence.
//
// Confidence is advisory metadata; it never gates acceptance.
func scoreConfidence(sides ...domain.NetDelta) domain.Confidence {
	allSwapAction := true
	for _, s := range sides {
		if transferOnly(s.Evidence) {
			return domain.ConfidenceLow
		}
		if s.ActionRaw != nil && s.Evidence.Has(domain.EvidenceBalance) &&
			s.ActionRaw.Sign() != s.SignedRaw.Sign() {
			// The protocol marker disputes the observed direction.
			return domain.ConfidenceLow
		}
		if !s.Evidence.Has(domain.EvidenceSwapAction) {
			allSwapAction = false
		}
	}
	if allSwapAction {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}

func transferOnly(e domain.EvidenceSet) bool {
	return e.Has(domain.EvidenceTransferAction) &&
		!e.Has(domain.EvidenceBalance) &&
		!e.Has(domain.EvidenceSwapAction)
}
