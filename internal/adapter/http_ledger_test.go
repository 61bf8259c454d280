package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilpay/notesync/models"
)

func newTestLedger(t *testing.T, handler http.HandlerFunc) LedgerAdapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPLedgerAdapter(HTTPClientConfig{BaseURL: srv.URL})
}

func TestGetAccount_Found(t *testing.T) {
	led := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/addr-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.Account{Address: "addr-1"})
	})

	acc, err := led.GetAccount(context.Background(), "addr-1")
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "addr-1", acc.Address)
}

func TestGetAccount_AbsentIsNilNotError(t *testing.T) {
	led := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	acc, err := led.GetAccount(context.Background(), "addr-1")
	require.NoError(t, err)
	assert.Nil(t, acc)
}

func TestGetAccounts_NilEntriesPreserved(t *testing.T) {
	led := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Addresses []string `json:"addresses"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a", "b", "c"}, req.Addresses)

		_ = json.NewEncoder(w).Encode(struct {
			Accounts []*models.Account `json:"accounts"`
		}{Accounts: []*models.Account{{Address: "a"}, nil, {Address: "c"}}})
	})

	accs, err := led.GetAccounts(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, accs, 3)
	assert.NotNil(t, accs[0])
	assert.Nil(t, accs[1])
	assert.NotNil(t, accs[2])
}

func TestGetAccounts_CountMismatch(t *testing.T) {
	led := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(struct {
			Accounts []*models.Account `json:"accounts"`
		}{Accounts: []*models.Account{nil}})
	})

	_, err := led.GetAccounts(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProtocol))
}
