package memory

import (
	"context"
	"errors"
	"testing"

	"solana-swap-classifier/internal/domain"
	"solana-swap-classifier/internal/storage"
)

func TestErasureStore_InsertAndGet(t *testing.T) {
	store := NewErasureStore()
	ctx := context.Background()

	e := &domain.Erasure{
		Signature:    "sig1",
		Reason:       domain.ReasonSingleSidedChange,
		DebugContext: "only SOL changed",
	}

	if err := store.Insert(ctx, e); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetBySignature(ctx, "sig1")
	if err != nil {
		t.Fatalf("GetBySignature failed: %v", err)
	}
	if got.Reason != domain.ReasonSingleSidedChange {
		t.Errorf("Reason mismatch: got %s", got.Reason)
	}
	if got.DebugContext != "only SOL changed" {
		t.Errorf("DebugContext mismatch: got %q", got.DebugContext)
	}
}

func TestErasureStore_NotFound(t *testing.T) {
	store := NewErasureStore()
	ctx := context.Background()

	_, err := store.GetBySignature(ctx, "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestErasureStore_DuplicateKey(t *testing.T) {
	store := NewErasureStore()
	ctx := context.Background()

	e := &domain.Erasure{Signature: "sig1", Reason: domain.ReasonSameAssetNoOp}
	if err := store.Insert(ctx, e); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, &domain.Erasure{Signature: "sig1", Reason: domain.ReasonMalformedInput})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestErasureStore_GetByReason(t *testing.T) {
	store := NewErasureStore()
	ctx := context.Background()

	inserts := []*domain.Erasure{
		{Signature: "sigB", Reason: domain.ReasonBelowMinimumValue},
		{Signature: "sigA", Reason: domain.ReasonBelowMinimumValue},
		{Signature: "sigC", Reason: domain.ReasonOnlyTransferActions},
	}
	for _, e := range inserts {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByReason(ctx, domain.ReasonBelowMinimumValue)
	if err != nil {
		t.Fatalf("GetByReason failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 erasures, got %d", len(result))
	}
	if result[0].Signature != "sigA" || result[1].Signature != "sigB" {
		t.Errorf("Results not ordered by signature: %s, %s", result[0].Signature, result[1].Signature)
	}
}

func TestErasureStore_InvalidInput(t *testing.T) {
	store := NewErasureStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("nil erasure: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Erasure{Reason: domain.ReasonMalformedInput}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("empty signature: expected ErrInvalidInput, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Erasure{Signature: "sig1", Reason: "BOGUS"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("invalid reason: expected ErrInvalidInput, got %v", err)
	}
}
