package indexer

import (
	"context"
	"encoding/json"
)

// Stream defines the indexing API transaction feed interface.
type Stream interface {
	// SubscribeTransactions subscribes to enriched transactions matching the filter.
	SubscribeTransactions(ctx context.Context, filter TransactionFilter) (<-chan TransactionNotification, error)

	// Close closes the stream connection.
	Close() error
}

// TransactionFilter defines the subscription filter.
type TransactionFilter struct {
	// Accounts filters transactions that mention any of these accounts.
	// Empty subscribes to the full feed.
	Accounts []string
}

// TransactionNotification carries one enriched transaction from the feed.
// Payload holds the provider's JSON object untouched; the classifier owns
// its decoding.
type TransactionNotification struct {
	Signature string
	Slot      int64
	Payload   json.RawMessage
}
