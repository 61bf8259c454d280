package service

import (
	"context"
	"fmt"

	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/store"
	"github.com/veilpay/notesync/models"
)

type walletService struct {
	syncer   SyncService
	migrator MigrationService
	keys     crypto.StorageKeyService
	storage  store.Storage
	log      *logger.Logger
}

// NewWalletService builds the public [WalletService] facade over the sync
// engine.
func NewWalletService(
	syncer SyncService,
	migrator MigrationService,
	keys crypto.StorageKeyService,
	storage store.Storage,
	log *logger.Logger,
) WalletService {
	return &walletService{
		syncer:   syncer,
		migrator: migrator,
		keys:     keys,
		storage:  storage,
		log:      log,
	}
}

// GetUnspentNotes implements [WalletService].
func (w *walletService) GetUnspentNotes(ctx context.Context, wallet models.Wallet, sessionKey []byte) ([]models.Note, error) {
	result, err := w.syncer.Sync(ctx, wallet, sessionKey)
	if err != nil {
		return nil, err
	}
	return result.Unspent, nil
}

// GetBalance implements [WalletService].
func (w *walletService) GetBalance(notes []models.Note) uint64 {
	return Balance(notes)
}

// ClearCache implements [WalletService]. It removes the three data kinds
// under every suffix generation derivable with the given material; the
// encrypted generation is reachable only when a session key is supplied.
func (w *walletService) ClearCache(ctx context.Context, wallet models.Wallet, sessionKey []byte) error {
	if wallet.IsZero() {
		return ErrNoWallet
	}

	suffixes := make([]string, 0, 3)
	for _, gen := range []crypto.Generation{crypto.GenerationLegacy, crypto.GenerationHashed} {
		suffix, err := w.keys.Suffix(gen, wallet, nil)
		if err != nil {
			return fmt.Errorf("derive suffix for cache clear: %w", err)
		}
		suffixes = append(suffixes, suffix)
	}
	if len(sessionKey) > 0 {
		suffix, err := w.keys.Suffix(crypto.GenerationEncrypted, wallet, sessionKey)
		if err != nil {
			return fmt.Errorf("derive encrypted suffix for cache clear: %w", err)
		}
		suffixes = append(suffixes, suffix)
	}

	keys := make([]string, 0, len(suffixes)*len(store.Prefixes))
	for _, prefix := range store.Prefixes {
		for _, suffix := range suffixes {
			keys = append(keys, store.Key(prefix, suffix))
		}
	}

	if err := w.storage.Remove(ctx, keys...); err != nil {
		return fmt.Errorf("clear wallet cache: %w", err)
	}

	w.log.Info().Str("wallet", wallet.String()).Int("keys", len(keys)).Msg("wallet cache cleared")
	return nil
}

// MigrateStorageKeys implements [WalletService].
func (w *walletService) MigrateStorageKeys(ctx context.Context, wallet models.Wallet, sessionKey []byte) error {
	return w.migrator.Migrate(ctx, wallet, sessionKey)
}
