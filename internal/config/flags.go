package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-program-id ledger program identifier
//	-indexer-address remote indexer base URL
//	-ledger-address ledger account reader base URL
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-d local cache database path
//	-page-size feed page size
//	-page-delay pause between feed pages
//	-spent-backoff delay between spent-check retries
//	-spent-max-attempts spent-check attempt cap (0 = retry forever)
//	-refresh-interval background refresh interval
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var programID string
	var indexerAddress, ledgerAddress string
	var requestTimeout time.Duration
	var databaseDSN string
	var pageSize int64
	var pageDelay, spentBackoff time.Duration
	var spentMaxAttempts uint64
	var refreshInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&programID, "program-id", "", "Ledger program identifier")
	flag.StringVar(&indexerAddress, "indexer-address", "", "Remote indexer base URL")
	flag.StringVar(&ledgerAddress, "ledger-address", "", "Ledger account reader base URL")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&databaseDSN, "d", "", "Local cache database path")
	flag.Int64Var(&pageSize, "page-size", 0, "Feed page size")
	flag.DurationVar(&pageDelay, "page-delay", 0, "Pause between feed pages")
	flag.DurationVar(&spentBackoff, "spent-backoff", 0, "Delay between spent-check retries")
	flag.Uint64Var(&spentMaxAttempts, "spent-max-attempts", 0, "Spent-check attempt cap (0 = retry forever)")
	flag.DurationVar(&refreshInterval, "refresh-interval", 0, "Background refresh interval")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			ProgramID: programID,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Adapter: Adapter{
			IndexerAddress: indexerAddress,
			LedgerAddress:  ledgerAddress,
			RequestTimeout: requestTimeout,
		},
		Sync: Sync{
			PageSize:         pageSize,
			PageDelay:        pageDelay,
			SpentBackoff:     spentBackoff,
			SpentMaxAttempts: spentMaxAttempts,
		},
		Workers: Workers{
			RefreshInterval: refreshInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
