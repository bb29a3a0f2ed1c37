package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solana-swap-classifier/internal/domain"
)

// ComputeSwapRecordID computes a deterministic record id using SHA256.
// Formula: SHA256(signature|leg_role)
// Returns hex-encoded hash (64 characters).
//
// The leg role is part of the key because a split pair stores two records
// for the same transaction signature.
func ComputeSwapRecordID(signature string, legRole domain.LegRole) string {
	data := fmt.Sprintf("%s|%s", signature, string(legRole))

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeErasureID computes a deterministic id for an erasure record.
// Formula: SHA256(signature|reason)
// Returns hex-encoded hash (64 characters).
func ComputeErasureID(signature string, reason domain.ReasonCode) string {
	data := fmt.Sprintf("%s|%s", signature, string(reason))

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
