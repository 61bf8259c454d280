package config

import (
	"fmt"
	"time"
)

const (
	defaultRequestTimeout  = 15 * time.Second
	defaultPageSize        = 100
	defaultPageDelay       = 500 * time.Millisecond
	defaultSpentBackoff    = 3 * time.Second
	defaultRefreshInterval = 5 * time.Minute
)

// applyDefaults fills in the tunables that have safe defaults. Addresses and
// the program identifier have none and are checked by validate.
func applyDefaults(cfg *StructuredConfig) {
	if cfg.Adapter.RequestTimeout <= 0 {
		cfg.Adapter.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Sync.PageSize <= 0 {
		cfg.Sync.PageSize = defaultPageSize
	}
	if cfg.Sync.PageDelay <= 0 {
		cfg.Sync.PageDelay = defaultPageDelay
	}
	if cfg.Sync.SpentBackoff <= 0 {
		cfg.Sync.SpentBackoff = defaultSpentBackoff
	}
	if cfg.Workers.RefreshInterval <= 0 {
		cfg.Workers.RefreshInterval = defaultRefreshInterval
	}
}

func (c *StructuredConfig) validate() error {
	if c.App.ProgramID == "" {
		return fmt.Errorf("%w: program id is required", ErrInvalidAppConfigs)
	}
	if c.Adapter.IndexerAddress == "" {
		return fmt.Errorf("%w: indexer address is required", ErrInvalidAdapterConfigs)
	}
	if c.Adapter.LedgerAddress == "" {
		return fmt.Errorf("%w: ledger address is required", ErrInvalidAdapterConfigs)
	}
	if c.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: local cache database path is required", ErrInvalidStorageConfigs)
	}
	return nil
}
