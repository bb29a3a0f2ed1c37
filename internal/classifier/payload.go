package classifier

import (
	"encoding/json"
	"fmt"
)

// TransactionPayload is the per-transaction input contract supplied by the
// ingestion/indexing collaborator. Field shapes mirror the indexing API;
// missing optional fields degrade to empty values, never to errors.
type TransactionPayload struct {
	Signature      string                 `json:"signature"`
	SwapperHint    string                 `json:"swapperHint,omitempty"`
	Signers        []string               `json:"signers,omitempty"`
	BalanceChanges []BalanceChangePayload `json:"balanceChanges"`
	Actions        []ActionPayload        `json:"actions"`
}

// BalanceChangePayload is one per-account balance row.
type BalanceChangePayload struct {
	Account        string `json:"account"`
	Owner          string `json:"owner"`
	Mint           string `json:"mint"`
	Decimals       uint8  `json:"decimals"`
	Symbol         string `json:"symbol,omitempty"`
	RawPreBalance  int64  `json:"rawPreBalance"`
	RawPostBalance int64  `json:"rawPostBalance"`
}

// ActionPayload is one protocol-level action marker. Kind selects which
// fields are meaningful; unrecognized kinds are ignored by the normalizer.
type ActionPayload struct {
	Kind        string             `json:"kind"`
	SwapperHint string             `json:"swapperHint,omitempty"`
	LegIn       *ActionLegPayload  `json:"legIn,omitempty"`
	LegOut      *ActionLegPayload  `json:"legOut,omitempty"`
	Sender      string             `json:"sender,omitempty"`
	Receiver    string             `json:"receiver,omitempty"`
	Mint        string             `json:"mint,omitempty"`
	RawAmount   int64              `json:"rawAmount,omitempty"`
}

// ActionLegPayload is one side of a SWAP action.
type ActionLegPayload struct {
	Mint      string `json:"mint"`
	RawAmount int64  `json:"rawAmount"`
}

// DecodePayload parses a raw JSON transaction payload. A payload that is not
// parseable at all is a hard input error owned by the caller, not an Erasure.
func DecodePayload(data []byte) (*TransactionPayload, error) {
	var p TransactionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode transaction payload: %w", err)
	}
	return &p, nil
}
