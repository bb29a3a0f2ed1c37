package domain

// ReasonCode is the closed enumeration of rejection reasons.
type ReasonCode string

const (
	ReasonMalformedInput      ReasonCode = "MALFORMED_INPUT"
	ReasonOnlyTransferActions ReasonCode = "ONLY_TRANSFER_ACTIONS"
	ReasonSingleSidedChange   ReasonCode = "SINGLE_SIDED_CHANGE"
	ReasonSameAssetNoOp       ReasonCode = "SAME_ASSET_NO_OP"
	ReasonBelowMinimumValue   ReasonCode = "BELOW_MINIMUM_VALUE"
	ReasonInvalidAssetCount   ReasonCode = "INVALID_ASSET_COUNT"
)

// IsValid checks if the reason code is a valid value.
func (r ReasonCode) IsValid() bool {
	switch r {
	case ReasonMalformedInput, ReasonOnlyTransferActions, ReasonSingleSidedChange,
		ReasonSameAssetNoOp, ReasonBelowMinimumValue, ReasonInvalidAssetCount:
		return true
	}
	return false
}

// Erasure is a typed rejection: the transaction is not a qualifying swap.
// Terminal; carries no partial swap data.
type Erasure struct {
	Signature    string
	Reason       ReasonCode
	DebugContext string // minimal human-readable context, never parsed
}
