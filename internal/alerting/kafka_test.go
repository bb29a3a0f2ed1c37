package alerting

import (
	"encoding/json"
	"testing"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/idhash"
)

func TestMessageFromLeg(t *testing.T) {
	leg := &domain.ParsedSwap{
		Signature:  "sig1",
		Swapper:    "wallet1",
		LegRole:    domain.LegRoleSingle,
		Direction:  domain.DirectionDispose,
		QuoteAsset: domain.AssetRef{Mint: "usdc-mint", Symbol: "USDC", Decimals: 6},
		BaseAsset:  domain.AssetRef{Mint: "sol-mint", Symbol: "SOL", Decimals: 9},
		Amounts: domain.SwapAmounts{
			QuoteAmount: domain.MustDecimalAmount("95"),
			BaseAmount:  domain.MustDecimalAmount("1"),
		},
		Confidence: domain.ConfidenceHigh,
	}

	msg := messageFromLeg(leg)

	if msg.RecordID != idhash.ComputeSwapRecordID("sig1", domain.LegRoleSingle) {
		t.Errorf("RecordID mismatch: %s", msg.RecordID)
	}
	if msg.QuoteAmount != "95" || msg.BaseAmount != "1" {
		t.Errorf("amounts not serialized as decimal strings: %s / %s", msg.QuoteAmount, msg.BaseAmount)
	}
	if msg.Direction != "DISPOSE" || msg.Confidence != "HIGH" {
		t.Errorf("enum serialization wrong: %s / %s", msg.Direction, msg.Confidence)
	}

	// Wire format must be stable JSON.
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded SwapMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != msg {
		t.Errorf("round trip changed message:\n%+v\n%+v", decoded, msg)
	}
}
