package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	ws "github.com/johndosdos/warbler/internal/websocket"
)

// ServeWs upgrades the viewer's connection and streams their notifications.
func ServeWs(h *ws.Hub, db database.Querier) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		ctx := r.Context()

		// The server's read and write timeouts would otherwise close the
		// socket after a few seconds.
		rc := http.NewResponseController(w)
		if err := rc.SetReadDeadline(time.Time{}); err != nil {
			slog.WarnContext(ctx, "failed to clear read deadline", "error", err)
		}
		if err := rc.SetWriteDeadline(time.Time{}); err != nil {
			slog.WarnContext(ctx, "failed to clear write deadline", "error", err)
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			slog.WarnContext(ctx, "failed to upgrade connection", "error", err)
			return
		}

		slog.InfoContext(ctx, "upgraded connection",
			"username", viewer.Username)

		c := ws.NewClient(conn, viewer.ID)
		reg := ws.Registration{
			Client: c,
			Done:   make(chan struct{}),
		}

		select {
		case h.Register <- reg:
		case <-h.Done():
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		// Wait for registration to complete
		<-reg.Done

		// We block on c.ReadMessage() because the request context is
		// cancelled as soon as we return from the handler.
		go c.WriteMessage(ctx)
		c.ReadMessage(ctx)
	})
}
