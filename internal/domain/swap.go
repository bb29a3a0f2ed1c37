package domain

// Direction indicates what the swapper did with the base asset.
type Direction string

const (
	DirectionAcquire Direction = "ACQUIRE"
	DirectionDispose Direction = "DISPOSE"
)

// IsValid checks if the direction is a valid value.
func (d Direction) IsValid() bool {
	return d == DirectionAcquire || d == DirectionDispose
}

// Confidence reflects how much independent evidence agreed on a
// classification. Informational only: it never gates acceptance.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// IsValid checks if the confidence is a valid value.
func (c Confidence) IsValid() bool {
	return c == ConfidenceHigh || c == ConfidenceMedium || c == ConfidenceLow
}

// LegRole distinguishes the records emitted for one transaction.
// (Signature, LegRole) is the uniqueness key for persistence.
type LegRole string

const (
	// LegRoleSingle: the only record of a direct core-quoted swap.
	LegRoleSingle LegRole = "SINGLE"
	// LegRoleDispose / LegRoleAcquire: the two legs of a split pair.
	LegRoleDispose LegRole = "DISPOSE_LEG"
	LegRoleAcquire LegRole = "ACQUIRE_LEG"
)

// IsValid checks if the leg role is a valid value.
func (r LegRole) IsValid() bool {
	return r == LegRoleSingle || r == LegRoleDispose || r == LegRoleAcquire
}

// SwapAmounts carries the decimal amounts of a classified swap.
// All values are non-negative; Direction carries the sign information.
type SwapAmounts struct {
	// QuoteAmount is the canonical quote-side size. When both a wallet-level
	// and a protocol-level figure exist this is the wallet-level (net) one.
	// Zero for synthesized split legs, which observe no quote movement.
	QuoteAmount DecimalAmount
	// BaseAmount is the base-side size.
	BaseAmount DecimalAmount
	// GrossQuoteAmount is the protocol-reported quote magnitude before
	// wallet-level fees, present only when it was observable and differed
	// in provenance from the balance-derived figure.
	GrossQuoteAmount *DecimalAmount
	// NetQuoteAmount is the balance-derived quote magnitude, present under
	// the same conditions as GrossQuoteAmount.
	NetQuoteAmount *DecimalAmount
}

// ParsedSwap is the canonical classified swap record. Immutable.
type ParsedSwap struct {
	Signature  string
	Swapper    string
	LegRole    LegRole
	Direction  Direction
	QuoteAsset AssetRef
	BaseAsset  AssetRef
	Amounts    SwapAmounts
	Confidence Confidence
	// EvidenceSummary records which tiers supported each side,
	// e.g. "base=BALANCE|SWAP_ACTION quote=BALANCE".
	EvidenceSummary string
}

// SplitSwapPair is the two-leg representation of a trade between two
// non-core assets, both legs quoted against the same synthesized pivot.
type SplitSwapPair struct {
	Signature  string
	DisposeLeg ParsedSwap
	AcquireLeg ParsedSwap
}

// Legs returns both legs in dispose, acquire order.
func (p SplitSwapPair) Legs() []ParsedSwap {
	return []ParsedSwap{p.DisposeLeg, p.AcquireLeg}
}
