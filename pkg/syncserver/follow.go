package syncserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/app"
)

// Follow connects to a server's /ws endpoint and calls apply with every
// state it receives, starting with the current one. It returns when ctx is
// cancelled, the connection drops, or apply fails.
func Follow(ctx context.Context, url string, apply func(*app.DehydratedState) error) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

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
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			return errors.New("R009").WithDetail("websocket message").Wrap(err)
		}
		if msg.Type != MessageRoutes {
			continue
		}
		if err := apply(msg.State); err != nil {
			return err
		}
	}
}
