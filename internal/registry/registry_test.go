package registry

import (
	"testing"

	"solana-swap-classifier/internal/domain"
)

func TestNew_RejectsEmptyAndDuplicates(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Error("empty registry should fail")
	}

	_, err := New([]CoreAsset{
		{AssetRef: domain.AssetRef{Mint: "MintA", Symbol: "A", Decimals: 6}},
		{AssetRef: domain.AssetRef{Mint: "MintA", Symbol: "A2", Decimals: 9}},
	})
	if err == nil {
		t.Error("duplicate mints should fail")
	}

	_, err = New([]CoreAsset{{AssetRef: domain.AssetRef{Symbol: "X"}}})
	if err == nil {
		t.Error("empty mint should fail")
	}
}

func TestDefault_Membership(t *testing.T) {
	r := Default()

	if !r.IsCore(WSOLMint) || !r.IsCore(USDCMint) {
		t.Error("SOL and USDC must be core")
	}
	if r.IsCore("BonkMint11111111111111111111111111111111111") {
		t.Error("random mint must not be core")
	}

	sol, ok := r.Lookup(WSOLMint)
	if !ok || sol.Symbol != "SOL" || sol.Decimals != 9 {
		t.Errorf("unexpected SOL entry: %+v", sol)
	}
}

func TestDefault_PriorityOrder(t *testing.T) {
	r := Default()

	solPrio, _ := r.Priority(WSOLMint)
	usdcPrio, _ := r.Priority(USDCMint)
	if solPrio >= usdcPrio {
		t.Errorf("SOL (%d) should outrank USDC (%d)", solPrio, usdcPrio)
	}

	if _, ok := r.Priority("unknown"); ok {
		t.Error("unknown mint should have no priority")
	}
}

func TestDefault_NativeIsPivot(t *testing.T) {
	r := Default()
	if r.Native().Mint != WSOLMint {
		t.Errorf("native pivot should be SOL, got %s", r.Native().Mint)
	}
}

func TestWithMinValues_OverridesFloors(t *testing.T) {
	r, err := Default().WithMinValues(map[string]string{"SOL": "0.05"})
	if err != nil {
		t.Fatalf("WithMinValues: %v", err)
	}

	sol, _ := r.Lookup(WSOLMint)
	if sol.MinValue.String() != "0.05" {
		t.Errorf("SOL floor = %s, want 0.05", sol.MinValue)
	}

	// Other assets keep their defaults.
	usdc, _ := r.Lookup(USDCMint)
	if usdc.MinValue.String() != "0.1" {
		t.Errorf("USDC floor = %s, want 0.1", usdc.MinValue)
	}

	// The receiver is untouched.
	orig, _ := Default().Lookup(WSOLMint)
	if orig.MinValue.String() != "0.001" {
		t.Errorf("default SOL floor mutated: %s", orig.MinValue)
	}
}

func TestWithMinValues_RejectsBadOverrides(t *testing.T) {
	if _, err := Default().WithMinValues(map[string]string{"DOGE": "1"}); err == nil {
		t.Error("unknown symbol should fail")
	}
	if _, err := Default().WithMinValues(map[string]string{"SOL": "not-a-number"}); err == nil {
		t.Error("unparseable value should fail")
	}
}

func TestAssets_ReturnsCopy(t *testing.T) {
	r := Default()
	assets := r.Assets()
	assets[0].Symbol = "mutated"
	if r.Native().Symbol == "mutated" {
		t.Error("Assets must return a copy")
	}
}
