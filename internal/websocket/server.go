package websocket

import (
	"context"
	"log/slog"

	"github.com/coder/websocket"
)

// ReadMessage drains the incoming stream until the peer goes away, then
// unregisters the client. Notifications are one way, so frames are ignored.
func (c *Client) ReadMessage(ctx context.Context) {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.Done():
		}
		c.conn.CloseNow()
	}()

	for {
		_, _, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				slog.WarnContext(ctx, "websocket read failed", "error", err, "user_id", c.UserID)
			}
			return
		}
	}
}
