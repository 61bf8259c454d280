package adapter

import "errors"

var (
	// ErrProtocol marks a structurally invalid remote response: unexpected
	// shape, or an index-resolution response whose length does not match the
	// request.
	ErrProtocol = errors.New("malformed remote response")

	// ErrUnavailable marks a transport-level failure (network error or 5xx)
	// that a caller may retry.
	ErrUnavailable = errors.New("remote service unavailable")
)
