package domain

import "testing"

func TestRawAmount_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      RawAmount
		decimals uint8
		want     string
	}{
		{"one SOL", 1_000_000_000, 9, "1"},
		{"negative SOL", -1_000_000_000, 9, "-1"},
		{"USDC with fraction", 95_000_000, 6, "95"},
		{"sub-unit", 1, 9, "0.000000001"},
		{"zero decimals", 1000, 0, "1000"},
		{"zero amount", 0, 6, "0"},
		{"not a power-of-ten multiple", 123_456_789, 6, "123.456789"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.raw.Normalize(tt.decimals)
			if got.String() != tt.want {
				t.Errorf("Normalize(%d, %d) = %s, want %s", tt.raw, tt.decimals, got.String(), tt.want)
			}
		})
	}
}

func TestRawAmount_NormalizeIsExact(t *testing.T) {
	// 0.1 in 6 decimals: float64 cannot represent this exactly, the decimal form must.
	got := RawAmount(100_000).Normalize(6)
	want := MustDecimalAmount("0.1")
	if !got.Equal(want) {
		t.Errorf("expected exact 0.1, got %s", got.String())
	}
}

func TestRawAmount_SignAbs(t *testing.T) {
	if RawAmount(-5).Sign() != -1 || RawAmount(5).Sign() != 1 || RawAmount(0).Sign() != 0 {
		t.Error("Sign mismatch")
	}
	if RawAmount(-5).Abs() != 5 {
		t.Error("Abs mismatch")
	}
}

func TestDecimalAmount_Cmp(t *testing.T) {
	small := MustDecimalAmount("0.0005")
	floor := MustDecimalAmount("0.001")
	if small.Cmp(floor) >= 0 {
		t.Error("0.0005 should compare below 0.001")
	}
	if !MustDecimalAmount("1.0").Equal(MustDecimalAmount("1")) {
		t.Error("1.0 and 1 should be equal")
	}
}

func TestEvidenceSet_String(t *testing.T) {
	var s EvidenceSet
	if s.String() != "NONE" {
		t.Errorf("empty set: got %s", s.String())
	}
	s = s.With(EvidenceBalance).With(EvidenceSwapAction)
	if s.String() != "BALANCE|SWAP_ACTION" {
		t.Errorf("got %s", s.String())
	}
	if !s.Has(EvidenceBalance) || s.Has(EvidenceTransferAction) {
		t.Error("membership mismatch")
	}
}
