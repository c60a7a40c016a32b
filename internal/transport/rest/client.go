// Package rest implements the transport ports against the HTTP API. Routes
// follow the reference deployment; the client never interprets response
// bodies, since shapes vary per deployment. Bulk-load payloads are handed
// over as raw JSON so the shape normalizer sees document key order.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/log"
	"github.com/zero-coolio/ofc/internal/transport"
)

// Client talks JSON over HTTP to the ledger service. The api key, when set,
// is attached to every request as x-api-key.
type Client struct {
	base   *url.URL
	apiKey string
	httpc  *http.Client
	logger *log.Logger
}

// New creates a REST client for the given base URL.
func New(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentTransport)
	}
	return &Client{
		base:   base,
		apiKey: apiKey,
		httpc:  &http.Client{Timeout: timeout},
		logger: logger,
	}, nil
}

// LoadTransactions fetches the raw transactions payload.
func (c *Client) LoadTransactions(ctx context.Context, opts transport.LoadOptions) (any, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	raw, err := c.do(ctx, http.MethodGet, "/transactions", query, nil, "load_transactions")
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	return raw, nil
}

// LoadCategories fetches the raw categories payload.
func (c *Client) LoadCategories(ctx context.Context) (any, error) {
	raw, err := c.do(ctx, http.MethodGet, "/categories", nil, nil, "load_categories")
	if err != nil || len(raw) == 0 {
		return nil, err
	}
	return raw, nil
}

// SubmitTransaction creates a transaction. The amount is sent as an
// unsigned magnitude with the kind discriminator alongside, which every
// known deployment accepts.
func (c *Client) SubmitTransaction(ctx context.Context, draft core.Draft) (map[string]any, error) {
	body := map[string]any{
		"amount":      json.Number(draft.Amount.Abs().StringFixed(2)),
		"kind":        string(draft.Kind),
		"description": draft.Description,
		"occurred_at": draft.OccurredAt.UTC().Format(time.RFC3339),
	}
	if draft.Category != "" {
		body["category"] = draft.Category
	}
	raw, err := c.do(ctx, http.MethodPost, "/transactions", nil, body, "submit")
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw), nil
}

// DeleteTransaction deletes by server id.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil, "delete")
	return err
}

// CreateCategory creates a category by name.
func (c *Client) CreateCategory(ctx context.Context, name string) (map[string]any, error) {
	raw, err := c.do(ctx, http.MethodPost, "/categories", nil, map[string]any{"name": name}, "create_category")
	if err != nil {
		return nil, err
	}
	return decodeRecord(raw), nil
}

// decodeRecord decodes a single-record body. Anything else yields nil,
// which callers treat as an unusable confirmation.
func decodeRecord(raw json.RawMessage) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	rec, _ := v.(map[string]any)
	return rec
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, op string) (json.RawMessage, error) {
	target := *c.base
	target.Path, _ = url.JoinPath(c.base.Path, path)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &transport.Error{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, &transport.Error{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	c.logger.Debug("request", log.FieldOperation, op, log.FieldURL, target.String(), log.FieldRequestID, requestID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &transport.Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("request failed", log.FieldOperation, op, log.FieldStatusCode, resp.StatusCode, log.FieldRequestID, requestID)
		return nil, &transport.Error{Op: op, Status: resp.StatusCode}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transport.Error{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		// A body that isn't JSON degrades to an empty payload; the shape
		// normalizer treats it as such.
		c.logger.Warn("undecodable response body", log.FieldOperation, op, log.FieldStatusCode, resp.StatusCode)
		return nil, nil
	}
	return data, nil
}
