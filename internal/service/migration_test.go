package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilpay/notesync/internal/crypto"
	"github.com/veilpay/notesync/internal/logger"
	"github.com/veilpay/notesync/internal/store"
	"github.com/veilpay/notesync/models"
)

const testProgramID = "nTxSvcProg1111111111111111111111"

func testWallet(b byte) models.Wallet {
	var w models.Wallet
	for i := range w {
		w[i] = b
	}
	return w
}

func testSessionKey() []byte {
	return bytes.Repeat([]byte{0xAB}, 32)
}

type migrationFixture struct {
	keys    crypto.StorageKeyService
	storage store.Storage
	svc     MigrationService

	legacy    string
	hashed    string
	encrypted string
}

func newMigrationFixture(t *testing.T) *migrationFixture {
	t.Helper()

	keys := crypto.NewStorageKeyService(testProgramID)
	storage := store.NewMemoryStorage()
	w := testWallet(1)

	legacy, err := keys.Suffix(crypto.GenerationLegacy, w, nil)
	require.NoError(t, err)
	hashed, err := keys.Suffix(crypto.GenerationHashed, w, nil)
	require.NoError(t, err)
	encrypted, err := keys.Suffix(crypto.GenerationEncrypted, w, testSessionKey())
	require.NoError(t, err)

	return &migrationFixture{
		keys:      keys,
		storage:   storage,
		svc:       NewMigrationService(keys, storage, logger.Nop()),
		legacy:    legacy,
		hashed:    hashed,
		encrypted: encrypted,
	}
}

func TestMigrate_MovesLegacyToHashed(t *testing.T) {
	f := newMigrationFixture(t)
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.legacy), "42"))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), nil))

	got, ok := f.storage.Get(store.Key(store.PrefixFetchOffset, f.hashed))
	require.True(t, ok)
	assert.Equal(t, "42", got)

	_, ok = f.storage.Get(store.Key(store.PrefixFetchOffset, f.legacy))
	assert.False(t, ok, "legacy key must be deleted after migration")
}

func TestMigrate_OffsetMergeKeepsMax(t *testing.T) {
	tests := []struct {
		name    string
		legacy  string
		current string
		want    string
	}{
		{"legacy larger", "50", "30", "50"},
		{"current larger", "10", "30", "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMigrationFixture(t)
			require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.legacy), tt.legacy))
			require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.hashed), tt.current))

			require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), nil))

			got, ok := f.storage.Get(store.Key(store.PrefixFetchOffset, f.hashed))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrate_CiphertextSetsUnion(t *testing.T) {
	f := newMigrationFixture(t)
	require.NoError(t, f.storage.Set(store.Key(store.PrefixCiphertextCache, f.legacy), `["a","b"]`))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixCiphertextCache, f.hashed), `["b","c"]`))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), nil))

	raw, ok := f.storage.Get(store.Key(store.PrefixCiphertextCache, f.hashed))
	require.True(t, ok)
	merged, err := parseCiphertextSet(raw)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, merged)
}

func TestMigrate_RecentIndicesUnionTruncated(t *testing.T) {
	f := newMigrationFixture(t)

	var legacySet, currentSet []int64
	for i := int64(1); i <= 15; i++ {
		legacySet = append(legacySet, i)
	}
	for i := int64(10); i <= 25; i++ {
		currentSet = append(currentSet, i)
	}
	require.NoError(t, f.storage.Set(store.Key(store.PrefixRecentIndexSet, f.legacy), formatIndexSet(legacySet)))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixRecentIndexSet, f.hashed), formatIndexSet(currentSet)))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), nil))

	raw, ok := f.storage.Get(store.Key(store.PrefixRecentIndexSet, f.hashed))
	require.True(t, ok)
	merged, err := parseIndexSet(raw)
	require.NoError(t, err)
	require.Len(t, merged, maxRecentIndices)
	assert.EqualValues(t, 25, merged[0])
	assert.EqualValues(t, 6, merged[len(merged)-1])
}

func TestMigrate_HashedToEncryptedWithoutLegacy(t *testing.T) {
	// The session key can appear long after the legacy data is gone; the
	// hashed leg must still run.
	f := newMigrationFixture(t)
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.hashed), "77"))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), testSessionKey()))

	got, ok := f.storage.Get(store.Key(store.PrefixFetchOffset, f.encrypted))
	require.True(t, ok)
	assert.Equal(t, "77", got)

	_, ok = f.storage.Get(store.Key(store.PrefixFetchOffset, f.hashed))
	assert.False(t, ok, "hashed key must be deleted once encrypted format holds the data")
}

func TestMigrate_LegacyThroughToEncrypted(t *testing.T) {
	f := newMigrationFixture(t)
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.legacy), "10"))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.hashed), "20"))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.encrypted), "15"))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), testSessionKey()))

	got, ok := f.storage.Get(store.Key(store.PrefixFetchOffset, f.encrypted))
	require.True(t, ok)
	assert.Equal(t, "20", got)

	_, ok = f.storage.Get(store.Key(store.PrefixFetchOffset, f.legacy))
	assert.False(t, ok)
	_, ok = f.storage.Get(store.Key(store.PrefixFetchOffset, f.hashed))
	assert.False(t, ok)
}

func TestMigrate_Idempotent(t *testing.T) {
	f := newMigrationFixture(t)
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.legacy), "42"))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixCiphertextCache, f.legacy), `["a","b"]`))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixRecentIndexSet, f.hashed), "9,8,7"))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), testSessionKey()))
	after := f.dumpState()

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), testSessionKey()))
	assert.Equal(t, after, f.dumpState(), "second migration must not change storage state")
}

// dumpState reads every key the migration could have touched.
func (f *migrationFixture) dumpState() map[string]string {
	state := make(map[string]string)
	for _, prefix := range store.Prefixes {
		for _, suffix := range []string{f.legacy, f.hashed, f.encrypted} {
			if v, ok := f.storage.Get(store.Key(prefix, suffix)); ok {
				state[store.Key(prefix, suffix)] = v
			}
		}
	}
	return state
}

func TestMigrate_CorruptValueKeepsCurrent(t *testing.T) {
	f := newMigrationFixture(t)
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.legacy), "garbage"))
	require.NoError(t, f.storage.Set(store.Key(store.PrefixFetchOffset, f.hashed), "30"))

	require.NoError(t, f.svc.Migrate(context.Background(), testWallet(1), nil))

	got, ok := f.storage.Get(store.Key(store.PrefixFetchOffset, f.hashed))
	require.True(t, ok)
	assert.Equal(t, "30", got, "current value must survive a corrupt merge source")

	_, ok = f.storage.Get(store.Key(store.PrefixFetchOffset, f.legacy))
	assert.False(t, ok, "corrupt legacy value is still obsolete")
}

type removeFailStorage struct {
	store.Storage
}

func (removeFailStorage) Remove(context.Context, ...string) error {
	return errors.New("remove rejected")
}

func TestMigrate_DeletionFailureNotFatal(t *testing.T) {
	keys := crypto.NewStorageKeyService(testProgramID)
	backing := store.NewMemoryStorage()
	svc := NewMigrationService(keys, removeFailStorage{backing}, logger.Nop())

	w := testWallet(1)
	legacy, err := keys.Suffix(crypto.GenerationLegacy, w, nil)
	require.NoError(t, err)
	hashed, err := keys.Suffix(crypto.GenerationHashed, w, nil)
	require.NoError(t, err)
	require.NoError(t, backing.Set(store.Key(store.PrefixFetchOffset, legacy), "42"))

	require.NoError(t, svc.Migrate(context.Background(), w, nil))

	got, ok := backing.Get(store.Key(store.PrefixFetchOffset, hashed))
	require.True(t, ok)
	assert.Equal(t, "42", got, "data must be migrated even when obsolete-key deletion fails")
}

func TestMigrate_MalformedSessionKeyFatal(t *testing.T) {
	f := newMigrationFixture(t)

	err := f.svc.Migrate(context.Background(), testWallet(1), []byte("too-short"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, crypto.ErrEncryption))
}

func TestMigrate_ZeroWallet(t *testing.T) {
	f := newMigrationFixture(t)
	err := f.svc.Migrate(context.Background(), models.Wallet{}, nil)
	assert.True(t, errors.Is(err, ErrNoWallet))
}
