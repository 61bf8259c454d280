// Package adapter provides transport-layer abstractions for communicating
// with the remote ledger.
//
// Two abstractions exist: [IndexerAdapter] for the ciphertext feed service and
// [LedgerAdapter] for reading ledger accounts. Both decouple the service layer
// from the underlying protocol; the package ships HTTP/REST implementations.
//
// Error values defined in errors.go are mapped from HTTP responses by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrProtocol] for malformed responses).
package adapter

import (
	"context"

	"github.com/veilpay/notesync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/ledger_adapter_mock.go -package=mock

// IndexerAdapter is the remote indexer serving the ledger's linear ciphertext
// feed.
type IndexerAdapter interface {
	// GetRange fetches the feed slice [start, end) of raw ciphertexts.
	GetRange(ctx context.Context, start, end int64) (models.RangeResponse, error)

	// ResolveIndices returns the canonical ledger position of each ciphertext,
	// one response element per request element, in request order. A response
	// of any other length is an [ErrProtocol].
	ResolveIndices(ctx context.Context, ciphertexts []string) ([]int64, error)
}

// LedgerAdapter reads accounts from the ledger. Absent accounts are returned
// as nil entries, not errors.
type LedgerAdapter interface {
	// GetAccount returns the account at addr, or nil if it does not exist.
	GetAccount(ctx context.Context, addr string) (*models.Account, error)

	// GetAccounts returns one entry per requested address, nil for addresses
	// with no account, in request order.
	GetAccounts(ctx context.Context, addrs []string) ([]*models.Account, error)
}
