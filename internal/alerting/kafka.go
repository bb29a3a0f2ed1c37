package alerting

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/idhash"
)

// Kafka publishes legs to a Kafka topic using a sync producer. The record id
// is the message key, so per-leg ordering and compaction work downstream.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

// Compile-time interface check.
var _ Publisher = (*Kafka)(nil)

// NewKafka creates a Kafka publisher.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	return &Kafka{
		producer: producer,
		topic:    topic,
	}, nil
}

// Publish sends one classified leg to the alert topic.
func (k *Kafka) Publish(_ context.Context, leg *domain.ParsedSwap) error {
	msg := messageFromLeg(leg)

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal swap message: %w", err)
	}

	_, _, err = k.producer.SendMessage(&sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(msg.RecordID),
		Value: sarama.ByteEncoder(data),
	})
	if err != nil {
		return fmt.Errorf("publish swap message: %w", err)
	}
	return nil
}

// Close shuts the producer down.
func (k *Kafka) Close() error {
	return k.producer.Close()
}

func messageFromLeg(leg *domain.ParsedSwap) SwapMessage {
	return SwapMessage{
		RecordID:        idhash.ComputeSwapRecordID(leg.Signature, leg.LegRole),
		Signature:       leg.Signature,
		Swapper:         leg.Swapper,
		LegRole:         string(leg.LegRole),
		Direction:       string(leg.Direction),
		QuoteMint:       leg.QuoteAsset.Mint,
		QuoteSymbol:     leg.QuoteAsset.Symbol,
		BaseMint:        leg.BaseAsset.Mint,
		BaseSymbol:      leg.BaseAsset.Symbol,
		QuoteAmount:     leg.Amounts.QuoteAmount.String(),
		BaseAmount:      leg.Amounts.BaseAmount.String(),
		Confidence:      string(leg.Confidence),
		EvidenceSummary: leg.EvidenceSummary,
	}
}
