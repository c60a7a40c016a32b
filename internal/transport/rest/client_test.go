package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-coolio/ofc/internal/core"
	"github.com/zero-coolio/ofc/internal/normalize"
	"github.com/zero-coolio/ofc/internal/transport"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "secret-key", 2*time.Second, nil)
	require.NoError(t, err)
	return c
}

func TestLoadTransactionsHeadersAndQuery(t *testing.T) {
	var gotKey, gotReqID, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotReqID = r.Header.Get("X-Request-ID")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[{"id":1,"amount":2.5,"kind":"credit","occurred_at":"2025-06-01"}],"total":1}`)
	})

	raw, err := c.LoadTransactions(context.Background(), transport.LoadOptions{Limit: 10, Offset: 5})
	require.NoError(t, err)

	assert.Equal(t, "secret-key", gotKey)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "limit=10&offset=5", gotQuery)

	// The payload comes back as raw JSON; the shape normalizer unwraps the
	// envelope and numbers decode as json.Number so amounts stay exact.
	recs := normalize.Records(raw)
	require.Len(t, recs, 1)
	assert.Equal(t, json.Number("2.5"), recs[0]["amount"])
}

func TestLoadTransactionsKeepsDocumentKeyOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"z":{"id":26,"amount":1,"kind":"credit","occurred_at":"2025-06-01"},`+
			`"a":{"id":1,"amount":2,"kind":"credit","occurred_at":"2025-06-01"},`+
			`"m":{"id":13,"amount":3,"kind":"credit","occurred_at":"2025-06-01"}}`)
	})

	raw, err := c.LoadTransactions(context.Background(), transport.LoadOptions{})
	require.NoError(t, err)

	recs := normalize.Records(raw)
	require.Len(t, recs, 3)
	var ids []json.Number
	for _, rec := range recs {
		ids = append(ids, rec["id"].(json.Number))
	}
	assert.Equal(t, []json.Number{"26", "1", "13"}, ids,
		"keyed records arrive in document order, not sorted key order")
}

func TestSubmitSendsMagnitudeAndKind(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/transactions", r.URL.Path)
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		require.NoError(t, dec.Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":42,"amount":4.50,"txn_type":"debit","occurred_at":"2025-06-01"}`)
	})

	amount, err := core.MoneyFromString("-4.50")
	require.NoError(t, err)
	rec, err := c.SubmitTransaction(context.Background(), core.Draft{
		Amount:      amount,
		Kind:        core.Debit,
		Description: "coffee",
		Category:    "Food",
		OccurredAt:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, json.Number("4.50"), body["amount"], "wire amount is an unsigned magnitude")
	assert.Equal(t, "debit", body["kind"])
	assert.Equal(t, "Food", body["category"])
	assert.Equal(t, json.Number("42"), rec["id"])
}

func TestDeleteStatusHandling(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/transactions/7" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	require.NoError(t, c.DeleteTransaction(context.Background(), 7))

	err := c.DeleteTransaction(context.Background(), 8)
	require.Error(t, err)
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusNotFound, te.Status)
}

func TestServerErrorIsTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := c.LoadTransactions(context.Background(), transport.LoadOptions{})
	require.Error(t, err)
	assert.True(t, transport.IsFailure(err))
}

func TestNonJSONBodyDegradesToEmptyPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>gateway butchered it</html>")
	})
	raw, err := c.LoadTransactions(context.Background(), transport.LoadOptions{})
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestNetworkFailure(t *testing.T) {
	c, err := New("http://127.0.0.1:1", "", 200*time.Millisecond, nil)
	require.NoError(t, err)
	_, err = c.LoadTransactions(context.Background(), transport.LoadOptions{})
	require.Error(t, err)
	assert.True(t, transport.IsFailure(err))
}
