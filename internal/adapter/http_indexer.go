package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/veilpay/notesync/models"
)

// HTTPClientConfig carries the connection settings shared by the HTTP
// adapters.
type HTTPClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpIndexerAdapter struct {
	client *resty.Client
}

// NewHTTPIndexerAdapter builds an [IndexerAdapter] talking to the remote
// indexer over HTTP/JSON.
func NewHTTPIndexerAdapter(cfg HTTPClientConfig) IndexerAdapter {
	return &httpIndexerAdapter{client: newRestyClient(cfg)}
}

func (h *httpIndexerAdapter) GetRange(ctx context.Context, start, end int64) (models.RangeResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("start", strconv.FormatInt(start, 10)).
		SetQueryParam("end", strconv.FormatInt(end, 10)).
		Get("/utxos/range")
	if err != nil {
		return models.RangeResponse{}, fmt.Errorf("range request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RangeResponse{}, err
	}

	var page models.RangeResponse
	if err = json.Unmarshal(resp.Body(), &page); err != nil {
		return models.RangeResponse{}, fmt.Errorf("%w: decode range response: %s", ErrProtocol, err)
	}

	return page, nil
}

func (h *httpIndexerAdapter) ResolveIndices(ctx context.Context, ciphertexts []string) ([]int64, error) {
	req := models.IndicesRequest{Ciphertexts: ciphertexts}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/utxos/indices")
	if err != nil {
		return nil, fmt.Errorf("resolve indices request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var out models.IndicesResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode indices response: %s", ErrProtocol, err)
	}
	if len(out.Indices) != len(ciphertexts) {
		return nil, fmt.Errorf("%w: got %d indices for %d ciphertexts",
			ErrProtocol, len(out.Indices), len(ciphertexts))
	}

	return out.Indices, nil
}

func newRestyClient(cfg HTTPClientConfig) *resty.Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}
	if code >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d: %s", ErrUnavailable, code, body)
	}
	return fmt.Errorf("http %d: %s", code, body)
}
