package store

// Logical key prefixes for the three per-wallet data kinds. A full storage
// key is a prefix concatenated with a wallet storage-key suffix.
const (
	PrefixFetchOffset     = "fetchOffset"
	PrefixCiphertextCache = "ciphertextCache"
	PrefixRecentIndexSet  = "recentActivityIndexSet"
)

// Prefixes lists every tracked data kind, in migration-processing order.
var Prefixes = []string{PrefixFetchOffset, PrefixCiphertextCache, PrefixRecentIndexSet}

// Key builds the full storage key for a data kind and wallet suffix.
func Key(prefix, suffix string) string {
	return prefix + suffix
}
