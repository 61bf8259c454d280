package models

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// WalletSize is the byte length of a wallet public key.
const WalletSize = 32

var ErrInvalidWallet = errors.New("invalid wallet public key")

// Wallet is an elliptic-curve public key identifying a shielded wallet.
// The canonical string encoding is base58.
type Wallet [WalletSize]byte

// ParseWallet decodes a base58-encoded wallet public key.
func ParseWallet(s string) (Wallet, error) {
	var w Wallet
	raw, err := base58.Decode(s)
	if err != nil {
		return w, fmt.Errorf("%w: %s", ErrInvalidWallet, err)
	}
	if len(raw) != WalletSize {
		return w, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidWallet, len(raw), WalletSize)
	}
	copy(w[:], raw)
	return w, nil
}

func (w Wallet) String() string {
	return base58.Encode(w[:])
}

// IsZero reports whether w is the all-zero (unset) key.
func (w Wallet) IsZero() bool {
	return w == Wallet{}
}
