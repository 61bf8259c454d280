package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/veilpay/notesync/internal/adapter"
	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/store"
	"github.com/veilpay/notesync/models"
)

const (
	// DefaultPageSize is how many feed items one indexer page covers.
	DefaultPageSize = 100
	// DefaultPageDelay is the courtesy pause between consecutive page
	// fetches, so a full resync does not hammer the indexer.
	DefaultPageDelay = 500 * time.Millisecond
)

// SyncOption tweaks a [SyncService] at construction time.
type SyncOption func(*syncService)

// WithPageSize overrides the feed page size.
func WithPageSize(n int64) SyncOption {
	return func(s *syncService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPageDelay overrides the inter-page delay.
func WithPageDelay(d time.Duration) SyncOption {
	return func(s *syncService) {
		if d >= 0 {
			s.pageDelay = d
		}
	}
}

// WithProgress registers a callback invoked after every completed page.
// Progress carries no correctness semantics; it exists for UI feedback.
func WithProgress(fn func(models.Progress)) SyncOption {
	return func(s *syncService) { s.progress = fn }
}

type syncService struct {
	keys      crypto.StorageKeyService
	storage   store.Storage
	indexer   adapter.IndexerAdapter
	migrator  MigrationService
	decryptor DecryptionService
	spent     SpentCheckService
	log       *logger.Logger

	pageSize  int64
	pageDelay time.Duration
	progress  func(models.Progress)

	// Per-wallet single flight: concurrent calls for one wallet attach to
	// the same in-flight pass; distinct wallets sync independently.
	group    singleflight.Group
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSyncService builds the [SyncService] orchestrating migration,
// decryption, spent checking and persistence.
func NewSyncService(
	keys crypto.StorageKeyService,
	storage store.Storage,
	indexer adapter.IndexerAdapter,
	migrator MigrationService,
	decryptor DecryptionService,
	spent SpentCheckService,
	log *logger.Logger,
	opts ...SyncOption,
) SyncService {
	s := &syncService{
		keys:      keys,
		storage:   storage,
		indexer:   indexer,
		migrator:  migrator,
		decryptor: decryptor,
		spent:     spent,
		log:       log,
		pageSize:  DefaultPageSize,
		pageDelay: DefaultPageDelay,
		inflight:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync implements [SyncService].
func (s *syncService) Sync(ctx context.Context, wallet models.Wallet, sessionKey []byte) (models.SyncResult, error) {
	if wallet.IsZero() {
		return models.SyncResult{}, ErrNoWallet
	}

	flightKey := wallet.String()
	s.invalidateStaleFlight(flightKey, wallet, sessionKey)

	v, err, _ := s.group.Do(flightKey, func() (any, error) {
		s.mu.Lock()
		s.inflight[flightKey] = struct{}{}
		s.mu.Unlock()
		// The in-flight mark is cleared unconditionally, success or failure,
		// so the next call always starts a fresh pass.
		defer func() {
			s.mu.Lock()
			delete(s.inflight, flightKey)
			s.mu.Unlock()
		}()

		return s.runSync(ctx, wallet, sessionKey)
	})
	if err != nil {
		return models.SyncResult{}, err
	}
	return v.(models.SyncResult), nil
}

// invalidateStaleFlight closes the window where a session key becomes
// available while a key-less sync is already running: without this, callers
// supplying the key would keep attaching to a pass that never migrates the
// hashed-format cache to the encrypted format.
func (s *syncService) invalidateStaleFlight(flightKey string, wallet models.Wallet, sessionKey []byte) {
	if len(sessionKey) == 0 {
		return
	}

	s.mu.Lock()
	_, running := s.inflight[flightKey]
	s.mu.Unlock()
	if !running {
		return
	}

	if s.hashedAwaitingEncryption(wallet, sessionKey) {
		s.log.Info().Str("wallet", flightKey).
			Msg("session key arrived mid-flight with unmigrated hashed cache; discarding in-flight sync")
		s.group.Forget(flightKey)
	}
}

// hashedAwaitingEncryption reports whether any data kind still lives under
// the hashed-generation key with no encrypted-generation counterpart.
func (s *syncService) hashedAwaitingEncryption(wallet models.Wallet, sessionKey []byte) bool {
	hashed, err := s.keys.Suffix(crypto.GenerationHashed, wallet, nil)
	if err != nil {
		return false
	}
	encrypted, err := s.keys.CurrentSuffix(wallet, sessionKey)
	if err != nil || encrypted == hashed {
		return false
	}

	for _, prefix := range store.Prefixes {
		_, hasHashed := s.storage.Get(store.Key(prefix, hashed))
		_, hasEncrypted := s.storage.Get(store.Key(prefix, encrypted))
		if hasHashed && !hasEncrypted {
			return true
		}
	}
	return false
}

func (s *syncService) runSync(ctx context.Context, wallet models.Wallet, sessionKey []byte) (models.SyncResult, error) {
	log := &logger.Logger{Logger: s.log.With().
		Str("sync_id", uuid.NewString()).
		Str("wallet", wallet.String()).
		Logger()}

	if err := s.migrator.Migrate(ctx, wallet, sessionKey); err != nil {
		return models.SyncResult{}, fmt.Errorf("migrate storage keys: %w", err)
	}

	suffix, err := s.keys.CurrentSuffix(wallet, sessionKey)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("derive storage key suffix: %w", err)
	}

	offset := s.loadOffset(suffix, log)
	log.Debug().Int64("offset", offset).Msg("starting feed scan")

	var result models.SyncResult
	decrypted := 0
	for {
		page, err := s.indexer.GetRange(ctx, offset, offset+s.pageSize)
		if err != nil {
			return models.SyncResult{}, fmt.Errorf("fetch feed page at %d: %w", offset, err)
		}

		outcomes, err := s.decryptor.DecryptBatch(ctx, page.Items)
		if err != nil {
			// No offset advance for a page whose results were not persisted.
			return models.SyncResult{}, fmt.Errorf("decrypt feed page at %d: %w", offset, err)
		}

		var candidates []models.Note
		var candidateCts []string
		for _, o := range outcomes {
			if o.Status != models.DecryptOK {
				continue
			}
			decrypted++
			// Every owned note lands in the history, zero-amount included.
			result.HistoryIndices = append(result.HistoryIndices, o.Note.LedgerIndex)
			if o.Note.Amount > 0 {
				candidates = append(candidates, o.Note)
				candidateCts = append(candidateCts, o.Ciphertext)
			}
		}

		spentFlags, err := s.spent.CheckSpent(ctx, candidates)
		if err != nil {
			return models.SyncResult{}, fmt.Errorf("check spent markers at %d: %w", offset, err)
		}
		for i, isSpent := range spentFlags {
			if !isSpent {
				result.Unspent = append(result.Unspent, candidates[i])
				result.Ciphertexts = append(result.Ciphertexts, candidateCts[i])
			}
		}

		// The offset counts raw feed items consumed, independent of how many
		// decrypted, and is persisted before deciding whether to continue.
		offset += int64(len(page.Items))
		if err = s.storage.Set(store.Key(store.PrefixFetchOffset, suffix), formatOffset(offset)); err != nil {
			return models.SyncResult{}, fmt.Errorf("persist fetch offset %d: %w", offset, err)
		}

		if s.progress != nil {
			s.progress(models.Progress{Offset: offset, Total: page.Total, Decrypted: decrypted})
		}

		if !page.HasMore || len(page.Items) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return models.SyncResult{}, ctx.Err()
		case <-time.After(s.pageDelay):
		}
	}

	s.persistRecentIndices(suffix, result.HistoryIndices, log)
	s.persistCiphertextCache(suffix, result.Ciphertexts, log)

	log.Debug().
		Int64("offset", offset).
		Int("decrypted", decrypted).
		Int("unspent", len(result.Unspent)).
		Msg("feed scan complete")
	return result, nil
}

// loadOffset reads the persisted fetch offset, defaulting to 0 for a missing
// or corrupt value. A corrupt offset only causes redundant re-fetching; the
// re-merged data is idempotent.
func (s *syncService) loadOffset(suffix string, log *logger.Logger) int64 {
	raw, ok := s.storage.Get(store.Key(store.PrefixFetchOffset, suffix))
	if !ok {
		return 0
	}
	offset, err := parseOffset(raw)
	if err != nil {
		log.Warn().Err(err).Msg("corrupt persisted fetch offset; rescanning from 0")
		return 0
	}
	return offset
}

func (s *syncService) persistRecentIndices(suffix string, indices []int64, log *logger.Logger) {
	key := store.Key(store.PrefixRecentIndexSet, suffix)

	var existing []int64
	if raw, ok := s.storage.Get(key); ok {
		parsed, err := parseIndexSet(raw)
		if err != nil {
			log.Warn().Err(err).Msg("corrupt persisted recent index set; replacing")
		} else {
			existing = parsed
		}
	}

	merged := topRecentIndices(existing, indices)
	if err := s.storage.Set(key, formatIndexSet(merged)); err != nil {
		log.Error().Err(err).Msg("failed to persist recent index set")
	}
}

func (s *syncService) persistCiphertextCache(suffix string, ciphertexts []string, log *logger.Logger) {
	key := store.Key(store.PrefixCiphertextCache, suffix)

	var existing []string
	if raw, ok := s.storage.Get(key); ok {
		parsed, err := parseCiphertextSet(raw)
		if err != nil {
			log.Warn().Err(err).Msg("corrupt persisted ciphertext cache; replacing")
		} else {
			existing = parsed
		}
	}

	encoded, err := formatCiphertextSet(append(existing, ciphertexts...))
	if err != nil {
		log.Error().Err(err).Msg("failed to encode ciphertext cache")
		return
	}
	if err = s.storage.Set(key, encoded); err != nil {
		log.Error().Err(err).Msg("failed to persist ciphertext cache")
	}
}
