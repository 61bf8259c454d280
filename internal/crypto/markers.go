package crypto

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// The ledger program records a spend under one of two nullifier slots, so two
// independent marker derivations exist per nullifier. A note is spent when
// either derived account exists on the ledger.
const (
	markerSeedA = "nullifier_marker_a"
	markerSeedB = "nullifier_marker_b"
)

// DeriveMarkerPair derives the two candidate spend-marker addresses for a
// nullifier under the given ledger program. The derivation is the ledger's
// deterministic address scheme: SHA-256 over seed, nullifier and program
// identifier, base58-encoded.
func DeriveMarkerPair(nullifier, programID string) (markerA, markerB string) {
	return deriveMarker(markerSeedA, nullifier, programID),
		deriveMarker(markerSeedB, nullifier, programID)
}

func deriveMarker(seed, nullifier, programID string) string {
	h := sha256.New()
	h.Write([]byte(seed))
	h.Write([]byte(nullifier))
	h.Write([]byte(programID))
	return base58.Encode(h.Sum(nil))
}
