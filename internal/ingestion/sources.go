package ingestion

import "context"

// Envelope is one raw transaction payload awaiting classification.
// Payload is the provider's JSON object per the indexing API contract.
type Envelope struct {
	Signature string
	Slot      int64
	Payload   []byte
}

// TransactionSource yields raw transaction payloads.
type TransactionSource interface {
	// Transactions returns a channel of envelopes. The channel closes when
	// the source is exhausted (file sources) or shut down (stream sources).
	Transactions(ctx context.Context) (<-chan Envelope, error)
}
