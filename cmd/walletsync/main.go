package main

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/veilpay/notesync/internal/adapter"
	"github.com/veilpay/notesync/internal/config"
	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/service"
	"github.com/veilpay/notesync/internal/store"
	"github.com/veilpay/notesync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("notesync")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	wallet, err := models.ParseWallet(os.Getenv("WALLET"))
	if err != nil {
		log.Fatal().Err(err).Msg("WALLET must hold a base58 wallet public key")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := store.NewSQLiteStorage(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer func() {
		if c, ok := storage.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	sessionKey, err := sessionKeyFromEnv(wallet, storage)
	if err != nil {
		log.Fatal().Err(err).Msg("derive session key")
	}

	indexer := adapter.NewHTTPIndexerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.IndexerAddress,
		Timeout: cfg.Adapter.RequestTimeout,
	})
	ledger := adapter.NewHTTPLedgerAdapter(adapter.HTTPClientConfig{
		BaseURL: cfg.Adapter.LedgerAddress,
		Timeout: cfg.Adapter.RequestTimeout,
	})

	services := service.NewServices(
		storage,
		indexer,
		ledger,
		newNoteCipher(wallet, sessionKey),
		sha256Hasher{},
		cfg.App.ProgramID,
		service.RetryPolicy{Backoff: cfg.Sync.SpentBackoff, MaxAttempts: cfg.Sync.SpentMaxAttempts},
		log,
		service.WithPageSize(cfg.Sync.PageSize),
		service.WithPageDelay(cfg.Sync.PageDelay),
		service.WithProgress(func(p models.Progress) {
			fmt.Fprintf(os.Stderr, "scanned %d/%d feed items, %d notes decrypted\n",
				p.Offset, p.Total, p.Decrypted)
		}),
	)

	notes, err := services.WalletService.GetUnspentNotes(ctx, wallet, sessionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("sync wallet")
	}
	fmt.Printf("Wallet:  %s\n", wallet)
	fmt.Printf("Notes:   %d unspent\n", len(notes))
	fmt.Printf("Balance: %d\n", services.WalletService.GetBalance(notes))

	if os.Getenv("WATCH") == "" {
		return
	}

	services.RefreshJob.Start(ctx, wallet, sessionKey, cfg.Workers.RefreshInterval)
	defer services.RefreshJob.Stop()
	<-ctx.Done()
}

// sessionKeyFromEnv derives the storage-encryption session key from the
// WALLET_PASSPHRASE environment variable. The argon2 salt is generated on
// first use and persisted in the local store so the same passphrase keeps
// deriving the same key. An empty passphrase means the hashed (unencrypted)
// storage-key format.
func sessionKeyFromEnv(wallet models.Wallet, storage store.Storage) ([]byte, error) {
	passphrase := os.Getenv("WALLET_PASSPHRASE")
	if passphrase == "" {
		return nil, nil
	}

	saltKey := "sessionSalt" + wallet.String()
	var salt []byte
	if raw, ok := storage.Get(saltKey); ok {
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("decode persisted session salt: %w", err)
		}
		salt = decoded
	} else {
		generated, err := crypto.GenerateSessionSalt()
		if err != nil {
			return nil, err
		}
		if err = storage.Set(saltKey, base64.StdEncoding.EncodeToString(generated)); err != nil {
			return nil, fmt.Errorf("persist session salt: %w", err)
		}
		salt = generated
	}

	return crypto.DeriveSessionKey(passphrase, salt), nil
}

// notePayload is the plaintext layout inside a note ciphertext.
type notePayload struct {
	Amount      uint64 `json:"amount"`
	LedgerIndex int64  `json:"index"`
	Nullifier   string `json:"nullifier"`
	Commitment  []byte `json:"commitment"`
}

// noteCipher is this binary's note decryption capability. The viewing key is
// bound to the wallet public key and, when available, the session key.
type noteCipher struct {
	viewingKey []byte
}

func newNoteCipher(wallet models.Wallet, sessionKey []byte) *noteCipher {
	h := sha256.New()
	h.Write([]byte("note_viewing_key"))
	h.Write(wallet[:])
	h.Write(sessionKey)
	return &noteCipher{viewingKey: h.Sum(nil)}
}

// DeriveNoteKey implements [service.EncryptionService].
func (c *noteCipher) DeriveNoteKey() ([]byte, error) {
	return c.viewingKey, nil
}

// Decrypt implements [service.EncryptionService]. The ciphertext is a base64
// blob of nonce ‖ AES-256-GCM ciphertext over a JSON notePayload. The
// payload's commitment is recomputed through hasher and must match.
func (c *noteCipher) Decrypt(ciphertext string, noteKey []byte, hasher service.NoteHasher) (models.Note, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return models.Note{}, fmt.Errorf("decode note ciphertext: %w", err)
	}

	block, err := aes.NewCipher(noteKey)
	if err != nil {
		return models.Note{}, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return models.Note{}, err
	}
	if len(blob) < gcm.NonceSize() {
		return models.Note{}, errors.New("note ciphertext too short")
	}

	plaintext, err := gcm.Open(nil, blob[:gcm.NonceSize()], blob[gcm.NonceSize():], nil)
	if err != nil {
		return models.Note{}, fmt.Errorf("open note ciphertext: %w", err)
	}

	var payload notePayload
	if err = json.Unmarshal(plaintext, &payload); err != nil {
		return models.Note{}, fmt.Errorf("unmarshal note payload: %w", err)
	}

	var amount [8]byte
	binary.BigEndian.PutUint64(amount[:], payload.Amount)
	commitment, err := hasher.HashFields(amount[:], []byte(payload.Nullifier))
	if err != nil {
		return models.Note{}, fmt.Errorf("recompute note commitment: %w", err)
	}
	if !bytes.Equal(commitment, payload.Commitment) {
		return models.Note{}, errors.New("note commitment mismatch")
	}

	return models.Note{
		Amount:      payload.Amount,
		LedgerIndex: payload.LedgerIndex,
		Nullifier:   payload.Nullifier,
	}, nil
}

// sha256Hasher implements [service.NoteHasher] over plain SHA-256.
type sha256Hasher struct{}

func (sha256Hasher) HashFields(inputs ...[]byte) ([]byte, error) {
	h := sha256.New()
	for _, in := range inputs {
		h.Write(in)
	}
	return h.Sum(nil), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
