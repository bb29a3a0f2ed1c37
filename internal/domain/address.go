package domain

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// DecodePubkey decodes a base58 Solana public key and verifies it is 32 bytes.
func DecodePubkey(s string) ([]byte, error) {
	if s == "" {
		return nil, fmt.Errorf("empty pubkey")
	}
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode pubkey %q: %w", s, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("pubkey %q: expected 32 bytes, got %d", s, len(raw))
	}
	return raw, nil
}

// IsValidPubkey reports whether s is a well-formed base58 32-byte key.
func IsValidPubkey(s string) bool {
	_, err := DecodePubkey(s)
	return err == nil
}

// IsOnCurve reports whether the address decodes to a point on the ed25519
// curve. Wallet keys are on-curve; program derived addresses are not.
func IsOnCurve(s string) bool {
	raw, err := DecodePubkey(s)
	if err != nil {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}
