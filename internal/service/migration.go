package service

import (
	"context"
	"fmt"

	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/store"
	"github.com/veilpay/notesync/models"
)

type migrationService struct {
	keys    crypto.StorageKeyService
	storage store.Storage
	log     *logger.Logger
}

// NewMigrationService builds the [MigrationService] that carries per-wallet
// cache data forward across storage-key generations.
func NewMigrationService(keys crypto.StorageKeyService, storage store.Storage, log *logger.Logger) MigrationService {
	return &migrationService{keys: keys, storage: storage, log: log}
}

// Migrate implements [MigrationService]. For each data kind it merges any
// value found under the legacy key into the current key, then, when a session
// key makes the encrypted generation current, merges any value found under
// the hashed key as well. The hashed leg does not depend on legacy data still
// being present: a hashed-format cache created before the session key existed
// is migrated too. Obsolete keys are deleted in one batch at the end;
// deletion failure is logged and not fatal, since the data is already in the
// new location.
func (m *migrationService) Migrate(ctx context.Context, wallet models.Wallet, sessionKey []byte) error {
	if wallet.IsZero() {
		return ErrNoWallet
	}

	legacy, err := m.keys.Suffix(crypto.GenerationLegacy, wallet, nil)
	if err != nil {
		return fmt.Errorf("derive legacy suffix: %w", err)
	}
	hashed, err := m.keys.Suffix(crypto.GenerationHashed, wallet, nil)
	if err != nil {
		return fmt.Errorf("derive hashed suffix: %w", err)
	}
	current, err := m.keys.CurrentSuffix(wallet, sessionKey)
	if err != nil {
		return fmt.Errorf("derive current suffix: %w", err)
	}

	encryptionActive := len(sessionKey) > 0 && current != hashed
	if len(sessionKey) > 0 && current == hashed {
		// Only possible by key collision. Log and skip, nothing stronger.
		m.log.Warn().
			Str("wallet", wallet.String()).
			Msg("session key produced the hashed suffix; skipping encrypted migration leg")
	}

	var obsolete []string
	for _, prefix := range store.Prefixes {
		if m.mergeForward(prefix, legacy, current) {
			obsolete = append(obsolete, store.Key(prefix, legacy))
		}
		if encryptionActive && m.mergeForward(prefix, hashed, current) {
			obsolete = append(obsolete, store.Key(prefix, hashed))
		}
	}

	if len(obsolete) > 0 {
		if err = m.storage.Remove(ctx, obsolete...); err != nil {
			m.log.Error().Err(err).
				Strs("keys", obsolete).
				Msg("failed to delete obsolete storage keys; data already migrated")
		}
	}

	return nil
}

// mergeForward moves the value stored under srcSuffix into dstSuffix for one
// data kind. It reports whether a source value was found (and the source key
// is therefore obsolete). A value already present at the destination is
// merged, never overwritten; if either side fails to parse, the destination
// value is kept unchanged. When the destination write fails before any copy
// exists, false is returned so the source key is NOT marked obsolete: the
// only copy of the value must survive for the next migration attempt.
// Migration must not block synchronization, so nothing in here is fatal.
func (m *migrationService) mergeForward(prefix, srcSuffix, dstSuffix string) bool {
	srcKey := store.Key(prefix, srcSuffix)
	dstKey := store.Key(prefix, dstSuffix)

	srcVal, ok := m.storage.Get(srcKey)
	if !ok {
		return false
	}

	dstVal, dstExists := m.storage.Get(dstKey)
	if !dstExists {
		if err := m.storage.Set(dstKey, srcVal); err != nil {
			m.log.Error().Err(err).Str("kind", prefix).Msg("failed to move cached value forward")
			return false
		}
		return true
	}

	merged, err := mergeValues(prefix, dstVal, srcVal)
	if err != nil {
		m.log.Warn().Err(err).Str("kind", prefix).
			Msg("corrupt cached value during migration merge; keeping current value")
		return true
	}

	if err = m.storage.Set(dstKey, merged); err != nil {
		m.log.Error().Err(err).Str("kind", prefix).Msg("failed to persist merged cached value")
	}
	return true
}

// mergeValues applies the kind-specific merge policy. currentVal wins on any
// parse failure.
func mergeValues(prefix, currentVal, oldVal string) (string, error) {
	switch prefix {
	case store.PrefixFetchOffset:
		// Offsets mean "already scanned up to here": the larger value is
		// never wrong to keep, the smaller only causes redundant re-fetching.
		cur, err := parseOffset(currentVal)
		if err != nil {
			return "", err
		}
		old, err := parseOffset(oldVal)
		if err != nil {
			return "", err
		}
		if old > cur {
			cur = old
		}
		return formatOffset(cur), nil

	case store.PrefixCiphertextCache:
		cur, err := parseCiphertextSet(currentVal)
		if err != nil {
			return "", err
		}
		old, err := parseCiphertextSet(oldVal)
		if err != nil {
			return "", err
		}
		return formatCiphertextSet(append(cur, old...))

	case store.PrefixRecentIndexSet:
		cur, err := parseIndexSet(currentVal)
		if err != nil {
			return "", err
		}
		old, err := parseIndexSet(oldVal)
		if err != nil {
			return "", err
		}
		return formatIndexSet(topRecentIndices(cur, old)), nil

	default:
		return "", fmt.Errorf("unknown data kind %q", prefix)
	}
}
