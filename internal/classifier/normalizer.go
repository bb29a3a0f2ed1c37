package classifier

import (
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// normalize maps the raw payload into the internal representation. It
// performs shape validation only: no business logic, no amount scaling.
// Recoverable gaps (missing lists, unknown action kinds, empty legs)
// degrade to empty values; only a missing signature or an unidentifiable
// swapper produce a MALFORMED_INPUT erasure.
func normalize(p *TransactionPayload) (*domain.RawTransaction, *domain.Erasure) {
	if p == nil || p.Signature == "" {
		return nil, &domain.Erasure{
			Signature:    "",
			Reason:       domain.ReasonMalformedInput,
			DebugContext: "missing signature",
		}
	}

	swapper := resolveSwapper(p)
	if swapper == "" {
		return nil, &domain.Erasure{
			Signature:    p.Signature,
			Reason:       domain.ReasonMalformedInput,
			DebugContext: "no swapper hint and no signers",
		}
	}

	tx := &domain.RawTransaction{
		Signature: p.Signature,
		Swapper:   swapper,
	}

	for _, bc := range p.BalanceChanges {
		if bc.Mint == "" {
			continue
		}
		tx.BalanceChanges = append(tx.BalanceChanges, domain.BalanceChange{
			Account: bc.Account,
			Owner:   bc.Owner,
			Asset: domain.AssetRef{
				Mint:     bc.Mint,
				Symbol:   bc.Symbol,
				Decimals: bc.Decimals,
			},
			RawPre:  domain.RawAmount(bc.RawPreBalance),
			RawPost: domain.RawAmount(bc.RawPostBalance),
		})
	}

	for _, a := range p.Actions {
		action, ok := normalizeAction(a)
		if !ok {
			continue
		}
		tx.Actions = append(tx.Actions, action)
	}

	return tx, nil
}

// resolveSwapper picks the wallet whose deltas are classified: the explicit
// hint when present, otherwise the transaction's primary signer (fee payer).
func resolveSwapper(p *TransactionPayload) string {
	if p.SwapperHint != "" {
		return p.SwapperHint
	}
	for _, s := range p.Signers {
		if s != "" {
			return s
		}
	}
	return ""
}

// normalizeAction maps one action payload to the typed variant.
// Returns ok=false for unrecognized kinds and unusable shapes.
func normalizeAction(a ActionPayload) (domain.ActionRecord, bool) {
	switch domain.ActionKind(a.Kind) {
	case domain.ActionSwap:
		rec := domain.ActionRecord{
			Kind:        domain.ActionSwap,
			SwapperHint: a.SwapperHint,
		}
		if a.LegIn != nil {
			rec.LegIn = domain.SwapActionLeg{Mint: a.LegIn.Mint, RawAmount: domain.RawAmount(a.LegIn.RawAmount).Abs()}
		}
		if a.LegOut != nil {
			rec.LegOut = domain.SwapActionLeg{Mint: a.LegOut.Mint, RawAmount: domain.RawAmount(a.LegOut.RawAmount).Abs()}
		}
		// A swap action with neither leg carries no signal.
		if rec.LegIn.Mint == "" && rec.LegOut.Mint == "" {
			return domain.ActionRecord{}, false
		}
		return rec, true

	case domain.ActionNativeTransfer:
		if a.Sender == "" && a.Receiver == "" {
			return domain.ActionRecord{}, false
		}
		return domain.ActionRecord{
			Kind:      domain.ActionNativeTransfer,
			Sender:    a.Sender,
			Receiver:  a.Receiver,
			RawAmount: domain.RawAmount(a.RawAmount).Abs(),
		}, true

	case domain.ActionTokenTransfer:
		if a.Mint == "" || (a.Sender == "" && a.Receiver == "") {
			return domain.ActionRecord{}, false
		}
		return domain.ActionRecord{
			Kind:      domain.ActionTokenTransfer,
			Sender:    a.Sender,
			Receiver:  a.Receiver,
			Mint:      a.Mint,
			RawAmount: domain.RawAmount(a.RawAmount).Abs(),
		}, true

	default:
		return domain.ActionRecord{}, false
	}
}

// describeAsset renders an asset for debug context strings.
func describeAsset(a domain.AssetRef) string {
	if a.Symbol != "" {
		return fmt.Sprintf("%s(%s)", a.Symbol, a.Mint)
	}
	return a.Mint
}
