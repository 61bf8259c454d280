package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the notesync
// engine. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional JSON
// file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds ledger-level settings such as the program identifier.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local cache database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Adapter holds network settings for the remote indexer and ledger.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds feed pagination and spent-check retry settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds background refresh settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file. When
	// non-empty, the file is parsed and merged on top of the values already
	// loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds ledger program settings.
type App struct {
	// ProgramID is the shielded-pool program identifier on the ledger. Its
	// first characters become the storage-key prefix, and it binds
	// spend-marker address derivation.
	// Env: APP_PROGRAM_ID
	ProgramID string `env:"PROGRAM_ID"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the local cache database settings.
	DB DB `envPrefix:"DB_"`
}

// DB contains the local cache database connection settings.
type DB struct {
	// DSN is the SQLite file path for the local cache.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Adapter holds network addresses and timeouts for the outbound transports.
type Adapter struct {
	// IndexerAddress is the base URL of the remote ciphertext indexer.
	// Env: ADAPTER_INDEXER_ADDRESS
	IndexerAddress string `env:"INDEXER_ADDRESS"`

	// LedgerAddress is the base URL of the ledger account reader.
	// Env: ADAPTER_LEDGER_ADDRESS
	LedgerAddress string `env:"LEDGER_ADDRESS"`

	// RequestTimeout is the default timeout for outbound requests.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds feed scan tuning.
type Sync struct {
	// PageSize is how many feed items one indexer page covers.
	// Env: SYNC_PAGE_SIZE
	PageSize int64 `env:"PAGE_SIZE"`

	// PageDelay is the pause between consecutive page fetches.
	// Env: SYNC_PAGE_DELAY
	PageDelay time.Duration `env:"PAGE_DELAY"`

	// SpentBackoff is the delay between spent-check retries.
	// Env: SYNC_SPENT_BACKOFF
	SpentBackoff time.Duration `env:"SPENT_BACKOFF"`

	// SpentMaxAttempts caps spent-check attempts; 0 retries forever.
	// Env: SYNC_SPENT_MAX_ATTEMPTS
	SpentMaxAttempts uint64 `env:"SPENT_MAX_ATTEMPTS"`
}

// Workers contains background refresh settings.
type Workers struct {
	// RefreshInterval defines how often the background refresh job re-syncs.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// GetConfig builds the merged configuration from environment variables,
// command-line flags and the optional JSON file, then validates it.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withFlags().
		withEnv().
		withJSON().
		build()
}
