package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/veilpay/notesync/models"
)

// ErrEncryption is returned when storage-key encryption fails, which happens
// only on malformed session-key material (wrong length for AES-256).
var ErrEncryption = errors.New("storage key encryption failed")

// contractPrefixLen is how many leading characters of the program identifier
// are used as the storage-key prefix.
const contractPrefixLen = 6

// storageKeyService is the private implementation of [StorageKeyService].
type storageKeyService struct {
	prefix string

	mu        sync.RWMutex
	hashed    map[string]string // walletString -> suffix
	encrypted map[string]string // walletString + key fingerprint -> suffix
}

// NewStorageKeyService constructs a [StorageKeyService] for the given ledger
// program identifier. The first 6 characters of programID become the prefix
// shared by all three suffix generations.
func NewStorageKeyService(programID string) StorageKeyService {
	prefix := programID
	if len(prefix) > contractPrefixLen {
		prefix = prefix[:contractPrefixLen]
	}
	return &storageKeyService{
		prefix:    prefix,
		hashed:    make(map[string]string),
		encrypted: make(map[string]string),
	}
}

// Suffix implements [StorageKeyService].
func (s *storageKeyService) Suffix(gen Generation, wallet models.Wallet, sessionKey []byte) (string, error) {
	switch gen {
	case GenerationLegacy:
		return s.prefix + wallet.String(), nil
	case GenerationHashed:
		return s.hashedSuffix(wallet), nil
	case GenerationEncrypted:
		return s.encryptedSuffix(wallet, sessionKey)
	default:
		return "", fmt.Errorf("unknown storage key generation %d", gen)
	}
}

// CurrentSuffix implements [StorageKeyService]. Without a session key the
// hashed generation is the current one; that is a supported mode, not an
// error.
func (s *storageKeyService) CurrentSuffix(wallet models.Wallet, sessionKey []byte) (string, error) {
	if len(sessionKey) == 0 {
		return s.hashedSuffix(wallet), nil
	}
	return s.encryptedSuffix(wallet, sessionKey)
}

func (s *storageKeyService) hashedSuffix(wallet models.Wallet) string {
	walletStr := wallet.String()

	s.mu.RLock()
	cached, ok := s.hashed[walletStr]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	sum := sha256.Sum256([]byte(walletStr))
	suffix := s.prefix + base64.RawURLEncoding.EncodeToString(sum[:])

	s.mu.Lock()
	s.hashed[walletStr] = suffix
	s.mu.Unlock()

	return suffix
}

func (s *storageKeyService) encryptedSuffix(wallet models.Wallet, sessionKey []byte) (string, error) {
	walletStr := wallet.String()
	memoKey := walletStr + "|" + keyFingerprint(sessionKey)

	s.mu.RLock()
	cached, ok := s.encrypted[memoKey]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	block, err := aes.NewCipher(sessionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrEncryption, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrEncryption, err)
	}

	// The IV is derived from the plaintext rather than drawn at random so the
	// same wallet always maps to the same storage key. This leaks equality of
	// wallet identity across uses of the same session key, and nothing else.
	sum := sha256.Sum256([]byte(walletStr))
	iv := sum[:gcm.NonceSize()]

	sealed := gcm.Seal(nil, iv, []byte(walletStr), nil)
	suffix := s.prefix + base64.RawURLEncoding.EncodeToString(sealed)

	s.mu.Lock()
	s.encrypted[memoKey] = suffix
	s.mu.Unlock()

	return suffix, nil
}

// keyFingerprint returns a short non-reversible identifier for sessionKey so
// the memo table never holds key material itself.
func keyFingerprint(sessionKey []byte) string {
	sum := sha256.Sum256(sessionKey)
	return base64.RawURLEncoding.EncodeToString(sum[:8])
}
