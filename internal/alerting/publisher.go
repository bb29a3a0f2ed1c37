// Package alerting publishes accepted swap legs to the alert-subscription
// queue. The matching engine that consumes them lives in another service;
// this side only guarantees each leg is published exactly once per record id.
package alerting

import (
	"context"

	"solana-swap-classifier/internal/domain"
)

// Publisher delivers classified legs to the alert queue.
// Split pairs are published as two independent messages.
type Publisher interface {
	Publish(ctx context.Context, leg *domain.ParsedSwap) error
	Close() error
}

// SwapMessage is the wire format of one published leg.
type SwapMessage struct {
	RecordID        string `json:"recordId"`
	Signature       string `json:"signature"`
	Swapper         string `json:"swapper"`
	LegRole         string `json:"legRole"`
	Direction       string `json:"direction"`
	QuoteMint       string `json:"quoteMint"`
	QuoteSymbol     string `json:"quoteSymbol,omitempty"`
	BaseMint        string `json:"baseMint"`
	BaseSymbol      string `json:"baseSymbol,omitempty"`
	QuoteAmount     string `json:"quoteAmount"`
	BaseAmount      string `json:"baseAmount"`
	Confidence      string `json:"confidence"`
	EvidenceSummary string `json:"evidenceSummary,omitempty"`
}
