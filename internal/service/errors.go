package service

import "errors"

var (
	// ErrIndexResolution marks a failed or inconsistent ledger-index
	// resolution. The whole decrypt batch is aborted; the caller may retry
	// the sync.
	ErrIndexResolution = errors.New("ledger index resolution failed")

	// ErrNoWallet is returned when an operation is attempted with the zero
	// wallet key.
	ErrNoWallet = errors.New("no wallet public key provided")
)
