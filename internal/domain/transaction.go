package domain

// BalanceChange is one token account's holdings before and after a
// transaction. Never mutated after construction.
type BalanceChange struct {
	Account string    // token account address
	Owner   string    // wallet that owns the token account
	Asset   AssetRef  // asset held by the account
	RawPre  RawAmount // balance before execution, smallest units
	RawPost RawAmount // balance after execution, smallest units
}

// RawDelta is the signed net change for the account.
func (b BalanceChange) RawDelta() RawAmount {
	return b.RawPost - b.RawPre
}

// ActionKind discriminates the ActionRecord variant.
type ActionKind string

const (
	ActionSwap           ActionKind = "SWAP"
	ActionNativeTransfer ActionKind = "NATIVE_TRANSFER"
	ActionTokenTransfer  ActionKind = "TOKEN_TRANSFER"
)

// IsValid checks if the kind is a recognized value.
func (k ActionKind) IsValid() bool {
	return k == ActionSwap || k == ActionNativeTransfer || k == ActionTokenTransfer
}

// SwapActionLeg is one side of a protocol-level swap marker.
type SwapActionLeg struct {
	Mint      string
	RawAmount RawAmount // magnitude, always non-negative
}

// ActionRecord is a protocol-level marker inside a transaction. It is a
// closed tagged variant: Kind selects which fields are meaningful.
// Actions may be absent, partial, or redundant with balance changes.
type ActionRecord struct {
	Kind ActionKind

	// ActionSwap
	SwapperHint string // wallet the protocol reports as swapper (optional)
	LegIn       SwapActionLeg
	LegOut      SwapActionLeg

	// ActionNativeTransfer / ActionTokenTransfer
	Sender    string
	Receiver  string
	Mint      string    // ActionTokenTransfer only; native transfers move SOL
	RawAmount RawAmount // transfer magnitude, always non-negative
}

// RawTransaction is the normalized internal representation of one
// transaction. Constructed once per classification call, never shared.
type RawTransaction struct {
	Signature      string // unique transaction id
	Swapper        string // wallet whose deltas are classified
	BalanceChanges []BalanceChange
	Actions        []ActionRecord
}
