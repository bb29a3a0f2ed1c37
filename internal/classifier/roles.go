package classifier

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// roleAssignment is the outcome of base/quote selection. When Split is set
// the trade is between two non-core assets and is handed to the split
// synthesizer; Quote/Base are then the lost and gained sides respectively.
type roleAssignment struct {
	Quote domain.NetDelta
	Base  domain.NetDelta
	Split bool
}

// assignRoles decides which surviving asset is quote and which is base.
// Exactly one core asset: it is the quote regardless of sign. Two core
// assets: the one earlier in registry priority is the quote. No core asset:
// marked for split synthesis, ordered lost-then-gained.
func (c *Classifier) assignRoles(sig string, deltas []domain.NetDelta) (roleAssignment, *domain.Erasure) {
	if len(deltas) != 2 {
		return roleAssignment{}, &domain.Erasure{
			Signature:    sig,
			Reason:       domain.ReasonInvalidAssetCount,
			DebugContext: fmt.Sprintf("%d qualifying assets after aggregation", len(deltas)),
		}
	}

	a, b := deltas[0], deltas[1]
	aPrio, aCore := c.registry.Priority(a.Asset.Mint)
	bPrio, bCore := c.registry.Priority(b.Asset.Mint)

	switch {
	case aCore && bCore:
		if aPrio < bPrio {
			return roleAssignment{Quote: a, Base: b}, nil
		}
		return roleAssignment{Quote: b, Base: a}, nil

	case aCore:
		return roleAssignment{Quote: a, Base: b}, nil

	case bCore:
		return roleAssignment{Quote: b, Base: a}, nil

	default:
		// Neither side is core: order as lost, gained for the synthesizer.
		if a.SignedRaw < 0 {
			return roleAssignment{Quote: a, Base: b, Split: true}, nil
		}
		return roleAssignment{Quote: b, Base: a, Split: true}, nil
	}
}

// direction derives what the swapper did with the base asset.
func direction(base domain.NetDelta) domain.Direction {
	if base.SignedRaw > 0 {
		return domain.DirectionAcquire
	}
	return domain.DirectionDispose
}
