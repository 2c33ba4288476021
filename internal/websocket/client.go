package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"

	viewNotify "github.com/johndosdos/warbler/components/notify"
	"github.com/johndosdos/warbler/internal/model"
)

type Client struct {
	UserID int64
	conn   *websocket.Conn
	Hub    *Hub
	Send   chan model.Activity
}

func NewClient(conn *websocket.Conn, userID int64) *Client {
	return &Client{
		conn:   conn,
		UserID: userID,
		Send:   make(chan model.Activity, 64),
	}
}

// WriteMessage renders queued activities to the outgoing websocket stream.
func (c *Client) WriteMessage(ctx context.Context) {
	for {
		select {
		case a, ok := <-c.Send:
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			w, err := c.conn.Writer(writeCtx, websocket.MessageText)
			if err != nil {
				slog.WarnContext(ctx, "failed to return a writer",
					"error", err)
				cancel()
				continue
			}

			if err := viewNotify.Notification(a).Render(writeCtx, w); err != nil {
				slog.ErrorContext(ctx, "failed to render component",
					"error", err,
					"activity_type", a.Type,
					"user_id", c.UserID)
			}

			w.Close()
			cancel()

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}
