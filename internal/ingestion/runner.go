package ingestion

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"solana-swap-classifier/internal/alerting"
	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/observability"
	"solana-swap-classifier/internal/storage"
)

// Runner drains a transaction source through the classifier and persists
// every outcome. It is the only component with side effects; classification
// itself stays pure.
type Runner struct {
	source       TransactionSource
	classifier   *classifier.Classifier
	swapStore    storage.ParsedSwapStore
	erasureStore storage.ErasureStore
	swapLog      storage.SwapLogStore
	publisher    alerting.Publisher
	workers      int
	logger       *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
// SwapLog and Publisher are optional sinks; the stores are required.
type RunnerOptions struct {
	Source       TransactionSource
	Classifier   *classifier.Classifier
	SwapStore    storage.ParsedSwapStore
	ErasureStore storage.ErasureStore
	SwapLog      storage.SwapLogStore
	Publisher    alerting.Publisher
	Workers      int
	Logger       *log.Logger
}

// NewRunner creates a new classification runner.
func NewRunner(opts RunnerOptions) *Runner {
	workers := opts.Workers
	if workers == 0 {
		workers = 4
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Runner{
		source:       opts.Source,
		classifier:   opts.Classifier,
		swapStore:    opts.SwapStore,
		erasureStore: opts.ErasureStore,
		swapLog:      opts.SwapLog,
		publisher:    opts.Publisher,
		workers:      workers,
		logger:       logger,
	}
}

// Run consumes the source until it is exhausted or the context is cancelled.
// A closed source channel is a normal end of stream (replay finished) and
// returns nil; cancellation returns the context error.
func (r *Runner) Run(ctx context.Context) error {
	envelopes, err := r.source.Transactions(ctx)
	if err != nil {
		return err
	}

	r.logger.Printf("Runner started with %d workers", r.workers)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for env := range envelopes {
				r.processEnvelope(ctx, env)
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		r.logger.Println("Runner stopping...")
		return err
	}
	r.logger.Println("Source exhausted, runner finished")
	return nil
}

// processEnvelope classifies one raw payload and persists the outcome.
// Classification is deterministic, so the same envelope seen twice produces
// the same record; storage duplicates are expected on replays, not errors.
func (r *Runner) processEnvelope(ctx context.Context, env Envelope) {
	observability.RecordTransactionProcessed()
	if env.Slot > 0 {
		observability.UpdateHighestSlot(env.Slot)
	}

	payload, err := classifier.DecodePayload(env.Payload)
	if err != nil {
		observability.DefaultMetrics.PayloadDecodeErrors.Inc()
		r.logger.Printf("Error decoding payload for %s: %v", env.Signature, err)
		return
	}
	if payload.Signature == "" {
		payload.Signature = env.Signature
	}

	r.warnOffCurveSwapper(payload)

	start := time.Now()
	result := r.classifier.Classify(payload)
	observability.DefaultMetrics.ClassificationLatency.Observe(time.Since(start).Seconds())

	if result.Erasure != nil {
		r.handleErasure(ctx, result.Erasure)
		return
	}
	r.handleAccepted(ctx, result)
}

// warnOffCurveSwapper flags swapper identities that are not valid ed25519
// curve points. Program-derived addresses legitimately fail this check, so it
// is a log line and never a rejection.
func (r *Runner) warnOffCurveSwapper(p *classifier.TransactionPayload) {
	swapper := p.SwapperHint
	if swapper == "" && len(p.Signers) > 0 {
		swapper = p.Signers[0]
	}
	if swapper != "" && !domain.IsOnCurve(swapper) {
		r.logger.Printf("Swapper %s is off-curve (likely a PDA) for %s", swapper, p.Signature)
	}
}

// handleErasure records a rejected transaction.
func (r *Runner) handleErasure(ctx context.Context, er *domain.Erasure) {
	observability.RecordErasure(string(er.Reason))

	start := time.Now()
	err := r.erasureStore.Insert(ctx, er)
	observability.DefaultMetrics.PersistLatency.WithLabelValues("erasures").Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		r.logger.Printf("Error storing erasure for %s: %v", er.Signature, err)
	}
}

// handleAccepted persists the classified legs, then fans them out to the
// optional analytics log and alert queue. A duplicate key means the
// transaction was already classified on a previous run; the leg is then
// neither re-logged nor re-published.
func (r *Runner) handleAccepted(ctx context.Context, result classifier.Result) {
	start := time.Now()
	var err error
	if result.Pair != nil {
		observability.DefaultMetrics.SplitPairsClassified.Inc()
		err = r.swapStore.InsertPair(ctx, result.Pair)
	} else {
		err = r.swapStore.Insert(ctx, result.Swap)
	}
	observability.DefaultMetrics.PersistLatency.WithLabelValues("swaps").Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return
		}
		r.logger.Printf("Error storing swap for %s: %v", signatureOf(result), err)
		return
	}

	legs := result.Legs()
	for i := range legs {
		observability.RecordSwapClassified(string(legs[i].Confidence))
	}
	observability.DefaultMetrics.LastSuccessfulClassification.SetToCurrentTime()

	r.logLegs(ctx, legs)
	r.publishLegs(ctx, legs)
}

// logLegs appends legs to the analytics log, if one is configured.
func (r *Runner) logLegs(ctx context.Context, legs []domain.ParsedSwap) {
	if r.swapLog == nil {
		return
	}

	rows := make([]*domain.ParsedSwap, len(legs))
	for i := range legs {
		rows[i] = &legs[i]
	}

	start := time.Now()
	err := r.swapLog.InsertBulk(ctx, rows, time.Now().UnixMilli())
	observability.DefaultMetrics.PersistLatency.WithLabelValues("swap_log").Observe(time.Since(start).Seconds())
	if err != nil {
		r.logger.Printf("Error logging %d legs for %s: %v", len(legs), legs[0].Signature, err)
	}
}

// publishLegs sends each leg to the alert queue, if one is configured.
func (r *Runner) publishLegs(ctx context.Context, legs []domain.ParsedSwap) {
	if r.publisher == nil {
		return
	}

	for i := range legs {
		if err := r.publisher.Publish(ctx, &legs[i]); err != nil {
			observability.DefaultMetrics.PublishErrors.Inc()
			r.logger.Printf("Error publishing leg %s/%s: %v", legs[i].Signature, legs[i].LegRole, err)
			continue
		}
		observability.DefaultMetrics.LegsPublished.Inc()
	}
}

// signatureOf extracts the transaction signature from an accepted result.
func signatureOf(result classifier.Result) string {
	if result.Pair != nil {
		return result.Pair.Signature
	}
	return result.Swap.Signature
}
