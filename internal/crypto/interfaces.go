package crypto

import "github.com/veilpay/notesync/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/storage_key_service_mock.go -package=mock

// Generation identifies one of the three storage-key naming schemes a wallet's
// cached data may live under. Older generations are migrated forward on every
// sync; new data is always written under the current generation.
type Generation int

const (
	// GenerationLegacy embeds the wallet public key verbatim in the storage
	// key. Kept only so old caches can be migrated and deleted.
	GenerationLegacy Generation = iota
	// GenerationHashed uses a one-way hash of the wallet public key. Requires
	// no secret material.
	GenerationHashed
	// GenerationEncrypted encrypts the wallet public key with a caller-held
	// session key, deterministically, so the same wallet always maps to the
	// same storage key.
	GenerationEncrypted
)

// StorageKeyService derives the per-wallet suffix appended to every persistent
// storage key. All derivations are pure functions of their inputs; hash and
// encryption results are memoized for the process lifetime.
type StorageKeyService interface {
	// Suffix derives the storage-key suffix for the given generation.
	// sessionKey is required for GenerationEncrypted and ignored otherwise.
	// Malformed session-key material yields ErrEncryption.
	Suffix(gen Generation, wallet models.Wallet, sessionKey []byte) (string, error)

	// CurrentSuffix derives the suffix new data is written under:
	// GenerationEncrypted when sessionKey is non-nil, GenerationHashed
	// otherwise.
	CurrentSuffix(wallet models.Wallet, sessionKey []byte) (string, error)
}
