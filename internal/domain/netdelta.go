package domain

import "strings"

// EvidenceTier identifies one of the three evidence sources inside a
// transaction that can attest to an asset movement.
type EvidenceTier uint8

const (
	// EvidenceBalance: per-account pre/post balance deltas.
	EvidenceBalance EvidenceTier = 1 << iota
	// EvidenceSwapAction: protocol-level swap markers.
	EvidenceSwapAction
	// EvidenceTransferAction: plain transfer markers, last-resort only.
	EvidenceTransferAction
)

// EvidenceSet is a set of evidence tiers supporting one net delta.
type EvidenceSet uint8

// Has reports whether the set contains the tier.
func (s EvidenceSet) Has(t EvidenceTier) bool {
	return s&EvidenceSet(t) != 0
}

// With returns the set extended with the tier.
func (s EvidenceSet) With(t EvidenceTier) EvidenceSet {
	return s | EvidenceSet(t)
}

// Union merges two sets.
func (s EvidenceSet) Union(other EvidenceSet) EvidenceSet {
	return s | other
}

// IsEmpty reports whether no tier supports the entry.
func (s EvidenceSet) IsEmpty() bool {
	return s == 0
}

// String renders the set as "BALANCE|SWAP_ACTION" style for debug context.
func (s EvidenceSet) String() string {
	if s == 0 {
		return "NONE"
	}
	var parts []string
	if s.Has(EvidenceBalance) {
		parts = append(parts, "BALANCE")
	}
	if s.Has(EvidenceSwapAction) {
		parts = append(parts, "SWAP_ACTION")
	}
	if s.Has(EvidenceTransferAction) {
		parts = append(parts, "TRANSFER_ACTION")
	}
	return strings.Join(parts, "|")
}

// NetDelta is the reconciled net movement of one asset for the swapper.
// At most one NetDelta exists per asset per transaction.
type NetDelta struct {
	Asset     AssetRef
	SignedRaw RawAmount   // net signed change in smallest units
	Evidence  EvidenceSet // tiers that attested to this movement

	// ActionRaw is the magnitude a swap action reported for this asset,
	// nil when no swap action covered it. Kept separate from SignedRaw so
	// wallet-level (net of fees) and protocol-level (gross) figures can
	// both be surfaced downstream.
	ActionRaw *RawAmount
}
