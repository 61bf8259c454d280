package models

// UnknownLedgerIndex marks a note whose position in the ledger feed has not
// been resolved yet.
const UnknownLedgerIndex int64 = -1

// Note is a single private value record (UTXO) in the shielded pool.
type Note struct {
	// Amount is the note value in base units.
	Amount uint64
	// LedgerIndex is the note's position in the remote ledger feed, or
	// UnknownLedgerIndex until resolved.
	LedgerIndex int64
	// Nullifier is the spend tag derived from the note. Publishing it on the
	// ledger marks the note as spent.
	Nullifier string
}

// DecryptStatus classifies the outcome of a single ciphertext decryption
// attempt.
type DecryptStatus int

const (
	// DecryptOK means the ciphertext decrypted to a note owned by this wallet.
	DecryptOK DecryptStatus = iota
	// DecryptSkipped means the ciphertext was empty and was not attempted.
	DecryptSkipped
	// DecryptFailed means the ciphertext does not belong to this wallet or is
	// malformed.
	DecryptFailed
)

// DecryptOutcome is the per-ciphertext result of the decryption pipeline.
type DecryptOutcome struct {
	Status     DecryptStatus
	Note       Note
	Ciphertext string
}
