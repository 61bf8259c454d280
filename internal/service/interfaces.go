package service

import (
	"context"

	"github.com/veilpay/notesync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// NoteHasher is the field-arithmetic hashing capability consumed by note
// decryption and nullifier derivation. It is constructed outside this engine
// and passed through opaquely.
type NoteHasher interface {
	HashFields(inputs ...[]byte) ([]byte, error)
}

// EncryptionService holds the key-derivation and AEAD primitives used to
// decrypt note payloads. Implementations live outside this engine.
type EncryptionService interface {
	// DeriveNoteKey derives the viewing key under which this wallet's note
	// payloads are encrypted.
	DeriveNoteKey() ([]byte, error)

	// Decrypt attempts to decrypt one ciphertext into a note using noteKey.
	// It returns an error for ciphertexts not owned by this wallet; that is
	// the common case, not an exceptional one.
	Decrypt(ciphertext string, noteKey []byte, hasher NoteHasher) (models.Note, error)
}

// MigrationService moves per-wallet cache data from older storage-key
// generations to the current one.
type MigrationService interface {
	// Migrate is idempotent and safe to run on every sync. It never fails on
	// corrupt cached values; only unusable session-key material is an error.
	Migrate(ctx context.Context, wallet models.Wallet, sessionKey []byte) error
}

// DecryptionService turns raw feed ciphertexts into notes with resolved
// ledger positions.
type DecryptionService interface {
	// DecryptBatch processes every ciphertext independently, then resolves
	// the ledger index of each successfully decrypted note in one remote
	// call. The returned slice has one outcome per input, in input order.
	DecryptBatch(ctx context.Context, ciphertexts []string) ([]models.DecryptOutcome, error)
}

// SpentCheckService answers whether notes have been spent on the ledger.
type SpentCheckService interface {
	// CheckSpent returns one flag per note, in input order. Remote failures
	// are retried according to the configured policy; with an unbounded
	// policy this call returns only once an answer is obtained or ctx is
	// cancelled.
	CheckSpent(ctx context.Context, notes []models.Note) ([]bool, error)

	// IsSpent is the single-note variant of CheckSpent.
	IsSpent(ctx context.Context, note models.Note) (bool, error)
}

// SyncService runs the paginated discovery loop. Concurrent calls for the
// same wallet attach to one in-flight pass and share its result.
type SyncService interface {
	Sync(ctx context.Context, wallet models.Wallet, sessionKey []byte) (models.SyncResult, error)
}

// WalletService is the public surface of the engine.
type WalletService interface {
	// GetUnspentNotes synchronizes the wallet against the remote ledger and
	// returns its currently unspent notes.
	GetUnspentNotes(ctx context.Context, wallet models.Wallet, sessionKey []byte) ([]models.Note, error)

	// GetBalance sums the amounts of the given notes.
	GetBalance(notes []models.Note) uint64

	// ClearCache removes all cached data for the wallet across every
	// storage-key generation reachable with the given session key.
	ClearCache(ctx context.Context, wallet models.Wallet, sessionKey []byte) error

	// MigrateStorageKeys runs the storage-key migration without syncing.
	MigrateStorageKeys(ctx context.Context, wallet models.Wallet, sessionKey []byte) error
}
