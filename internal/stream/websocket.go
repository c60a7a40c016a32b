package stream

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/zero-coolio/ofc/internal/log"
)

// wsSource reads the websocket feed. The api key travels as a query
// parameter, which is what the server expects for socket upgrades where
// custom headers aren't always available.
type wsSource struct {
	url    string
	apiKey string
	logger *log.Logger
}

func (s *wsSource) Run(ctx context.Context, handle Handler) error {
	u, err := url.Parse(s.url)
	if err != nil {
		return fmt.Errorf("parse websocket URL: %w", err)
	}
	if s.apiKey != "" {
		q := u.Query()
		q.Set("api_key", s.apiKey)
		u.RawQuery = q.Encode()
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial websocket: %w", err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	s.logger.Info("websocket connected", log.FieldURL, s.url)

	// ReadMessage has no context; closing the connection unblocks it.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("websocket read: %w", err)
		}
		rec, ok := decodeFrame(data)
		if !ok {
			s.logger.Warn("dropping undecodable websocket frame", log.FieldCount, len(data))
			continue
		}
		handle(rec)
	}
}
