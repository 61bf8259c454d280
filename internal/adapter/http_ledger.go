package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/veilpay/notesync/models"
)

type httpLedgerAdapter struct {
	client *resty.Client
}

// NewHTTPLedgerAdapter builds a [LedgerAdapter] reading accounts from the
// ledger's HTTP RPC endpoint.
func NewHTTPLedgerAdapter(cfg HTTPClientConfig) LedgerAdapter {
	return &httpLedgerAdapter{client: newRestyClient(cfg)}
}

func (h *httpLedgerAdapter) GetAccount(ctx context.Context, addr string) (*models.Account, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get("/accounts/" + addr)
	if err != nil {
		return nil, fmt.Errorf("get account request: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var acc models.Account
	if err = json.Unmarshal(resp.Body(), &acc); err != nil {
		return nil, fmt.Errorf("%w: decode account response: %s", ErrProtocol, err)
	}
	return &acc, nil
}

func (h *httpLedgerAdapter) GetAccounts(ctx context.Context, addrs []string) ([]*models.Account, error) {
	req := struct {
		Addresses []string `json:"addresses"`
	}{Addresses: addrs}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/accounts/batch")
	if err != nil {
		return nil, fmt.Errorf("get accounts request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var out struct {
		Accounts []*models.Account `json:"accounts"`
	}
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode accounts response: %s", ErrProtocol, err)
	}
	if len(out.Accounts) != len(addrs) {
		return nil, fmt.Errorf("%w: got %d accounts for %d addresses",
			ErrProtocol, len(out.Accounts), len(addrs))
	}

	return out.Accounts, nil
}
