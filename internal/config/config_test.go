package config

import (
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("APP_PROGRAM_ID", "nTxSvcProg1111111111111111111111")
	t.Setenv("ADAPTER_INDEXER_ADDRESS", "http://indexer.local")
	t.Setenv("ADAPTER_LEDGER_ADDRESS", "http://ledger.local")
	t.Setenv("ADAPTER_REQUEST_TIMEOUT", "30s")
	t.Setenv("STORAGE_DB_DSN", "/tmp/notesync.db")
	t.Setenv("SYNC_PAGE_SIZE", "50")
	t.Setenv("SYNC_SPENT_MAX_ATTEMPTS", "10")

	var cfg StructuredConfig
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "nTxSvcProg1111111111111111111111", cfg.App.ProgramID)
	assert.Equal(t, "http://indexer.local", cfg.Adapter.IndexerAddress)
	assert.Equal(t, "http://ledger.local", cfg.Adapter.LedgerAddress)
	assert.Equal(t, 30*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "/tmp/notesync.db", cfg.Storage.DB.DSN)
	assert.EqualValues(t, 50, cfg.Sync.PageSize)
	assert.EqualValues(t, 10, cfg.Sync.SpentMaxAttempts)
}

func TestParseJSON(t *testing.T) {
	raw := map[string]any{
		"app": map[string]any{"program_id": "prog"},
		"adapter": map[string]any{
			"indexer_address": "http://indexer.local",
			"ledger_address":  "http://ledger.local",
			"request_timeout": "45s",
		},
		"storage": map[string]any{"db": map[string]any{"dsn": "cache.db"}},
		"sync": map[string]any{
			"page_size":     200,
			"page_delay":    "1s",
			"spent_backoff": "5s",
		},
	}
	payload, err := json.Marshal(raw)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "prog", cfg.App.ProgramID)
	assert.Equal(t, 45*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "cache.db", cfg.Storage.DB.DSN)
	assert.EqualValues(t, 200, cfg.Sync.PageSize)
	assert.Equal(t, time.Second, cfg.Sync.PageDelay)
	assert.Equal(t, 5*time.Second, cfg.Sync.SpentBackoff)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &StructuredConfig{
		App:     App{ProgramID: "prog"},
		Storage: Storage{DB: DB{DSN: "cache.db"}},
		Adapter: Adapter{IndexerAddress: "http://i", LedgerAddress: "http://l"},
	}
	require.NoError(t, cfg.validate())

	missing := &StructuredConfig{}
	err := missing.validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidAppConfigs))
}

func TestApplyDefaults(t *testing.T) {
	cfg := &StructuredConfig{}
	applyDefaults(cfg)

	assert.Equal(t, defaultRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.EqualValues(t, defaultPageSize, cfg.Sync.PageSize)
	assert.Equal(t, defaultPageDelay, cfg.Sync.PageDelay)
	assert.Equal(t, defaultSpentBackoff, cfg.Sync.SpentBackoff)
	assert.Equal(t, defaultRefreshInterval, cfg.Workers.RefreshInterval)
}

func TestParseFlags(t *testing.T) {
	oldArgs := os.Args
	oldCommandLine := flag.CommandLine
	defer func() {
		os.Args = oldArgs
		flag.CommandLine = oldCommandLine
	}()

	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	os.Args = []string{
		"notesync",
		"-program-id", "prog",
		"-indexer-address", "http://indexer.local",
		"-d", "cache.db",
		"-page-size", "25",
		"-spent-max-attempts", "3",
	}

	cfg := ParseFlags()

	assert.Equal(t, "prog", cfg.App.ProgramID)
	assert.Equal(t, "http://indexer.local", cfg.Adapter.IndexerAddress)
	assert.Equal(t, "cache.db", cfg.Storage.DB.DSN)
	assert.EqualValues(t, 25, cfg.Sync.PageSize)
	assert.EqualValues(t, 3, cfg.Sync.SpentMaxAttempts)
}
