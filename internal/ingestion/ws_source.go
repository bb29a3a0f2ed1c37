package ingestion

import (
	"context"

	"solana-swap-classifier/internal/indexer"
	"solana-swap-classifier/internal/observability"
)

// StreamSource adapts an indexer.Stream to a TransactionSource.
type StreamSource struct {
	stream indexer.Stream
	filter indexer.TransactionFilter
}

// NewStreamSource creates a source backed by the indexing API stream.
func NewStreamSource(stream indexer.Stream, filter indexer.TransactionFilter) *StreamSource {
	return &StreamSource{stream: stream, filter: filter}
}

// Compile-time interface check.
var _ TransactionSource = (*StreamSource)(nil)

// Transactions subscribes to the stream and converts notifications.
func (s *StreamSource) Transactions(ctx context.Context) (<-chan Envelope, error) {
	notifs, err := s.stream.SubscribeTransactions(ctx, s.filter)
	if err != nil {
		return nil, err
	}

	out := make(chan Envelope)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-notifs:
				if !ok {
					return
				}
				observability.DefaultMetrics.StreamNotifications.Inc()
				env := Envelope{
					Signature: n.Signature,
					Slot:      n.Slot,
					Payload:   n.Payload,
				}
				select {
				case out <- env:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
