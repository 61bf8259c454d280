package crypto

import (
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for session-key derivation, following the OWASP (2024)
// recommendation: 1 iteration, 64 MiB memory, 4 threads, 256-bit output.
const (
	sessionKeyTime    = 1
	sessionKeyMemory  = 64 * 1024
	sessionKeyThreads = 4
	sessionKeyLen     = 32
)

// GenerateSessionSalt reads 16 random bytes from the OS CSPRNG for use as a
// session-key derivation salt. The salt is not secret.
func GenerateSessionSalt() ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// DeriveSessionKey derives a 256-bit storage-encryption session key from a
// passphrase and salt using Argon2id. The result is suitable as the session
// key consumed by [StorageKeyService] for the encrypted suffix generation.
// It exists only in client memory and is never persisted.
func DeriveSessionKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey(
		[]byte(passphrase),
		salt,
		sessionKeyTime,
		sessionKeyMemory,
		sessionKeyThreads,
		sessionKeyLen,
	)
}
