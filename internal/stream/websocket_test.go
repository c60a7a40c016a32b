package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrame(t *testing.T) {
	rec, ok := decodeFrame([]byte(`{"id":1,"amount":0.1}`))
	require.True(t, ok)
	assert.Equal(t, json.Number("0.1"), rec["amount"])

	for _, bad := range []string{`[1,2]`, `"x"`, `42`, `{broken`} {
		_, ok := decodeFrame([]byte(bad))
		assert.False(t, ok, "frame %q should not decode to a record", bad)
	}
}

func TestWebSocketSourceDeliversRecords(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		frames := []string{
			`{"id":1,"amount":5,"kind":"credit","occurred_at":"2025-06-01"}`,
			`not json at all`,
			`{"id":2,"amount":3,"kind":"debit","occurred_at":"2025-06-02"}`,
		}
		for _, f := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(f)))
		}
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	src, err := New(Config{Type: WebSocket, WSURL: wsURL, APIKey: "k123"}, nil)
	require.NoError(t, err)

	records := make(chan map[string]any, 8)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx, func(rec map[string]any) { records <- rec })
	}()

	first := <-records
	second := <-records
	assert.Equal(t, json.Number("1"), first["id"])
	assert.Equal(t, json.Number("2"), second["id"], "malformed frame skipped")
	assert.Equal(t, "k123", gotKey, "api key travels as query parameter")

	// Server handler returned; the read fails and Run reports it.
	err = <-done
	require.Error(t, err)
}

func TestWebSocketSourceStopsOnCancel(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		// Hold the connection open without sending anything.
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	src, err := New(Config{Type: WebSocket, WSURL: wsURL}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- src.Run(ctx, func(map[string]any) {})
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Type: "carrier-pigeon"}, nil)
	assert.Error(t, err)

	_, err = New(Config{Type: WebSocket}, nil)
	assert.Error(t, err, "websocket requires a URL")

	_, err = New(Config{Type: AMQP}, nil)
	assert.Error(t, err, "amqp requires a URL")

	src, err := New(Config{Type: None}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, src.Run(ctx, nil), context.Canceled)
}
