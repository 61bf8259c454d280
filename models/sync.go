package models

// SyncResult is what one full synchronization pass returns: the wallet's
// currently unspent notes plus the bookkeeping persisted alongside them.
type SyncResult struct {
	// Unspent holds the positive-amount notes with no spend marker on the
	// ledger, in discovery order.
	Unspent []Note
	// Ciphertexts holds the raw ciphertexts backing Unspent, same order.
	Ciphertexts []string
	// HistoryIndices holds the ledger index of every note decrypted during
	// this pass, spent or not, zero-amount or not.
	HistoryIndices []int64
}

// Progress is a point-in-time snapshot of a running synchronization, delivered
// through an optional callback. It carries no correctness semantics.
type Progress struct {
	// Offset is the feed position the engine has consumed up to.
	Offset int64
	// Total is the feed size reported by the indexer, 0 if unknown yet.
	Total int64
	// Decrypted counts ciphertexts decrypted so far in this pass.
	Decrypted int
}
