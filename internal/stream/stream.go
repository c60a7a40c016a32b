// Package stream delivers individual raw transaction records pushed by the
// server. Two channels exist in the wild: a websocket feed and an AMQP
// queue; both hand records to the same handler, and malformed frames are
// dropped rather than surfaced.
package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/zero-coolio/ofc/internal/log"
)

// Handler receives one raw pushed record, in the same per-record shape as
// bulk-load elements.
type Handler func(record map[string]any)

// Type selects a push-channel implementation.
type Type string

const (
	WebSocket Type = "websocket"
	AMQP      Type = "amqp"
	None      Type = "none"
)

// IsValid returns true if the stream type is known.
func (t Type) IsValid() bool {
	switch t {
	case WebSocket, AMQP, None:
		return true
	default:
		return false
	}
}

// Config holds what a source needs at construction time.
type Config struct {
	Type Type

	// websocket
	WSURL  string
	APIKey string

	// amqp
	AMQPURL  string
	Exchange string
	Queue    string
}

// Source consumes a push channel until the context ends.
type Source interface {
	// Run blocks, invoking handle for each delivered record. It returns
	// ctx.Err() on cancellation or the underlying failure when the channel
	// breaks.
	Run(ctx context.Context, handle Handler) error
}

// New creates the source selected by cfg.
func New(cfg Config, logger *log.Logger) (Source, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStream)
	}
	switch cfg.Type {
	case WebSocket:
		if cfg.WSURL == "" {
			return nil, fmt.Errorf("websocket stream requires a URL")
		}
		return &wsSource{url: cfg.WSURL, apiKey: cfg.APIKey, logger: logger}, nil
	case AMQP:
		if cfg.AMQPURL == "" {
			return nil, fmt.Errorf("amqp stream requires a URL")
		}
		return &amqpSource{cfg: cfg, logger: logger}, nil
	case None:
		return nopSource{}, nil
	default:
		return nil, fmt.Errorf("invalid stream type: %s", cfg.Type)
	}
}

// nopSource is the disabled push channel: it just waits out the context.
type nopSource struct{}

func (nopSource) Run(ctx context.Context, _ Handler) error {
	<-ctx.Done()
	return ctx.Err()
}

// decodeFrame parses one pushed frame into a record. Anything that isn't a
// JSON object is not a record and is dropped.
func decodeFrame(data []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	rec, ok := v.(map[string]any)
	return rec, ok
}
