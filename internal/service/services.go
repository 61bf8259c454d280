package service

import (
	"github.com/veilpay/notesync/internal/adapter"
	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/store"
)

// Services bundles every engine service behind one constructor, mirroring how
// the entrypoint wires them.
type Services struct {
	MigrationService  MigrationService
	DecryptionService DecryptionService
	SpentCheckService SpentCheckService
	SyncService       SyncService
	WalletService     WalletService
	RefreshJob        RefreshJob
}

// NewServices wires the full engine from its collaborators. programID is the
// ledger program identifier; enc and hasher are the externally constructed
// decryption capabilities.
func NewServices(
	storage store.Storage,
	indexer adapter.IndexerAdapter,
	ledger adapter.LedgerAdapter,
	enc EncryptionService,
	hasher NoteHasher,
	programID string,
	retryPolicy RetryPolicy,
	log *logger.Logger,
	syncOpts ...SyncOption,
) *Services {
	keys := crypto.NewStorageKeyService(programID)

	migrationSvc := NewMigrationService(keys, storage, log)
	decryptionSvc := NewDecryptionService(indexer, enc, hasher, log)
	spentSvc := NewSpentCheckService(ledger, programID, retryPolicy, log)
	syncSvc := NewSyncService(keys, storage, indexer, migrationSvc, decryptionSvc, spentSvc, log, syncOpts...)
	walletSvc := NewWalletService(syncSvc, migrationSvc, keys, storage, log)

	return &Services{
		MigrationService:  migrationSvc,
		DecryptionService: decryptionSvc,
		SpentCheckService: spentSvc,
		SyncService:       syncSvc,
		WalletService:     walletSvc,
		RefreshJob:        NewRefreshJob(walletSvc, log),
	}
}
