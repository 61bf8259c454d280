package models

// RangeResponse is one page of the indexer's linear ciphertext feed.
type RangeResponse struct {
	Items   []string `json:"items"`
	HasMore bool     `json:"hasMore"`
	Total   int64    `json:"total"`
}

// IndicesRequest asks the indexer for the canonical ledger position of each
// ciphertext. The response must contain exactly one index per request element,
// in request order.
type IndicesRequest struct {
	Ciphertexts []string `json:"ciphertexts"`
}

// IndicesResponse carries the resolved ledger positions.
type IndicesResponse struct {
	Indices []int64 `json:"indices"`
}

// Account is a ledger account as returned by the account reader. Only
// existence matters to this engine; Data is kept opaque.
type Account struct {
	Address string `json:"address"`
	Data    []byte `json:"data,omitempty"`
}
