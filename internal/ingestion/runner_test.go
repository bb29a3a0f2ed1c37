package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"solana-swap-classifier/internal/classifier"
	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/registry"
	"solana-swap-classifier/internal/storage/memory"
)

const (
	testSig     = "5VfYmGBBNNqJDGnVnaDkD4hGqRV3cFRyJ9qmN1PjFLY1"
	testSwapper = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

	bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	wifMint  = "EKpQGSJtjMFqKZ9KQanSqYXRcF8fBopzLHYxdM65zcjm"
)

// stubSource feeds a fixed set of envelopes then closes the channel.
type stubSource struct {
	envelopes []Envelope
}

func (s *stubSource) Transactions(ctx context.Context) (<-chan Envelope, error) {
	out := make(chan Envelope)
	go func() {
		defer close(out)
		for _, env := range s.envelopes {
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// stubPublisher records published legs.
type stubPublisher struct {
	mu        sync.Mutex
	published []domain.ParsedSwap
	failAll   bool
}

func (p *stubPublisher) Publish(ctx context.Context, leg *domain.ParsedSwap) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failAll {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, *leg)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

func swapPayload(t *testing.T, sig string) []byte {
	t.Helper()
	p := classifier.TransactionPayload{
		Signature:   sig,
		SwapperHint: testSwapper,
		BalanceChanges: []classifier.BalanceChangePayload{
			{Account: "a1", Owner: testSwapper, Mint: registry.WSOLMint, Decimals: 9, RawPreBalance: 2_000_000_000, RawPostBalance: 1_000_000_000},
			{Account: "a2", Owner: testSwapper, Mint: registry.USDCMint, Decimals: 6, RawPreBalance: 0, RawPostBalance: 95_000_000},
		},
		Actions: []classifier.ActionPayload{{
			Kind:   string(domain.ActionSwap),
			LegIn:  &classifier.ActionLegPayload{Mint: registry.WSOLMint, RawAmount: 1_000_000_000},
			LegOut: &classifier.ActionLegPayload{Mint: registry.USDCMint, RawAmount: 95_000_000},
		}},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func splitPayload(t *testing.T, sig string) []byte {
	t.Helper()
	p := classifier.TransactionPayload{
		Signature:   sig,
		SwapperHint: testSwapper,
		BalanceChanges: []classifier.BalanceChangePayload{
			{Account: "a1", Owner: testSwapper, Mint: bonkMint, Decimals: 5, RawPreBalance: 500_000_000, RawPostBalance: 0},
			{Account: "a2", Owner: testSwapper, Mint: wifMint, Decimals: 6, RawPreBalance: 0, RawPostBalance: 12_000_000},
		},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func erasurePayload(t *testing.T, sig string) []byte {
	t.Helper()
	p := classifier.TransactionPayload{
		Signature:   sig,
		SwapperHint: testSwapper,
		BalanceChanges: []classifier.BalanceChangePayload{
			{Account: "a1", Owner: testSwapper, Mint: registry.WSOLMint, Decimals: 9, RawPreBalance: 2_000_000_000, RawPostBalance: 1_000_000_000},
		},
	}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRunnerPersistsAcceptedSwap(t *testing.T) {
	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()
	pub := &stubPublisher{}

	r := NewRunner(RunnerOptions{
		Source:       &stubSource{envelopes: []Envelope{{Signature: testSig, Slot: 100, Payload: swapPayload(t, testSig)}}},
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Publisher:    pub,
		Workers:      1,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	legs, err := swapStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if len(legs) != 1 {
		t.Fatalf("stored legs = %d, want 1", len(legs))
	}
	if legs[0].LegRole != domain.LegRoleSingle {
		t.Errorf("LegRole = %s, want SINGLE", legs[0].LegRole)
	}
	if legs[0].Direction != domain.DirectionDispose {
		t.Errorf("Direction = %s, want DISPOSE", legs[0].Direction)
	}
	if pub.count() != 1 {
		t.Errorf("published legs = %d, want 1", pub.count())
	}
}

func TestRunnerPersistsSplitPair(t *testing.T) {
	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()

	r := NewRunner(RunnerOptions{
		Source:       &stubSource{envelopes: []Envelope{{Signature: testSig, Slot: 100, Payload: splitPayload(t, testSig)}}},
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Workers:      1,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	legs, err := swapStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if len(legs) != 2 {
		t.Fatalf("stored legs = %d, want 2", len(legs))
	}
	if legs[0].LegRole != domain.LegRoleDispose || legs[1].LegRole != domain.LegRoleAcquire {
		t.Errorf("leg roles = %s, %s, want DISPOSE_LEG, ACQUIRE_LEG", legs[0].LegRole, legs[1].LegRole)
	}
}

func TestRunnerRecordsErasure(t *testing.T) {
	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()

	r := NewRunner(RunnerOptions{
		Source:       &stubSource{envelopes: []Envelope{{Signature: testSig, Slot: 100, Payload: erasurePayload(t, testSig)}}},
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Workers:      1,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	er, err := erasureStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if er.Reason != domain.ReasonSingleSidedChange {
		t.Errorf("Reason = %s, want SINGLE_SIDED_CHANGE", er.Reason)
	}
}

func TestRunnerSkipsUndecodablePayload(t *testing.T) {
	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()

	r := NewRunner(RunnerOptions{
		Source: &stubSource{envelopes: []Envelope{
			{Signature: "bad", Slot: 100, Payload: []byte("{not json")},
			{Signature: testSig, Slot: 101, Payload: swapPayload(t, testSig)},
		}},
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Workers:      1,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	legs, err := swapStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if len(legs) != 1 {
		t.Errorf("stored legs = %d, want 1", len(legs))
	}
}

func TestRunnerTolerantOfReplayDuplicates(t *testing.T) {
	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()
	pub := &stubPublisher{}

	// Same transaction twice, as a crashed-and-restarted run would see it.
	env := Envelope{Signature: testSig, Slot: 100, Payload: swapPayload(t, testSig)}

	r := NewRunner(RunnerOptions{
		Source:       &stubSource{envelopes: []Envelope{env, env}},
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Publisher:    pub,
		Workers:      1,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	legs, err := swapStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if len(legs) != 1 {
		t.Errorf("stored legs = %d, want 1", len(legs))
	}
	// The duplicate must not re-alert.
	if pub.count() != 1 {
		t.Errorf("published legs = %d, want 1", pub.count())
	}
}

func TestRunnerContinuesOnPublishError(t *testing.T) {
	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()
	pub := &stubPublisher{failAll: true}

	r := NewRunner(RunnerOptions{
		Source:       &stubSource{envelopes: []Envelope{{Signature: testSig, Slot: 100, Payload: swapPayload(t, testSig)}}},
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Publisher:    pub,
		Workers:      1,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Persistence must not be rolled back by a failed alert.
	legs, err := swapStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if len(legs) != 1 {
		t.Errorf("stored legs = %d, want 1", len(legs))
	}
}

func TestFileSourceStreamsJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.jsonl")

	line1, _ := json.Marshal(fileEnvelope{Signature: "sig-1", Slot: 10, Payload: swapPayload(t, "sig-1")})
	line2, _ := json.Marshal(fileEnvelope{Signature: "sig-2", Slot: 11, Payload: splitPayload(t, "sig-2")})
	content := append(append(line1, '\n'), append(line2, '\n')...)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}

	src := NewFileSource(path)
	envelopes, err := src.Transactions(context.Background())
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}

	var got []Envelope
	for env := range envelopes {
		got = append(got, env)
	}
	if len(got) != 2 {
		t.Fatalf("envelopes = %d, want 2", len(got))
	}
	if got[0].Signature != "sig-1" || got[0].Slot != 10 {
		t.Errorf("first envelope = %+v", got[0])
	}
	if got[1].Signature != "sig-2" || got[1].Slot != 11 {
		t.Errorf("second envelope = %+v", got[1])
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource("/nonexistent/capture.jsonl")
	if _, err := src.Transactions(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSourceFeedsRunner(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.jsonl")

	line, _ := json.Marshal(fileEnvelope{Signature: testSig, Slot: 10, Payload: swapPayload(t, testSig)})
	if err := os.WriteFile(path, append(line, '\n'), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}

	swapStore := memory.NewParsedSwapStore()
	erasureStore := memory.NewErasureStore()

	r := NewRunner(RunnerOptions{
		Source:       NewFileSource(path),
		Classifier:   classifier.New(registry.Default()),
		SwapStore:    swapStore,
		ErasureStore: erasureStore,
		Workers:      2,
		Logger:       quietLogger(),
	})

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	legs, err := swapStore.GetBySignature(context.Background(), testSig)
	if err != nil {
		t.Fatalf("GetBySignature: %v", err)
	}
	if len(legs) != 1 {
		t.Errorf("stored legs = %d, want 1", len(legs))
	}
}
