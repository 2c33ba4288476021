package websocket

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/johndosdos/warbler/internal/broker"
	"github.com/johndosdos/warbler/internal/model"
)

type Registration struct {
	Client *Client
	Done   chan struct{}
}

// Hub routes activities to the connected clients of their target user. A
// user may hold several connections, one per open tab.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	Register   chan Registration
	Unregister chan *Client
	Activity   chan model.Activity
	done       chan struct{}
}

// NewHub returns a new instance of Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		Register:   make(chan Registration),
		Unregister: make(chan *Client),
		Activity:   make(chan model.Activity, 1024),
		done:       make(chan struct{}),
	}
}

// Run manages hub traffic until ctx is cancelled. When stream is not nil,
// activities are consumed from it; otherwise they arrive through Publish.
func (h *Hub) Run(ctx context.Context, stream jetstream.Stream) {
	defer close(h.done)

	if stream != nil {
		if err := broker.Subscriber(ctx, stream, h.Activity); err != nil {
			slog.ErrorContext(ctx, "failed to subscribe to broker", "error", err)
		}
	}

	for {
		select {
		case reg := <-h.Register:
			client := reg.Client
			conns, ok := h.clients[client.UserID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.UserID] = conns
			}
			conns[client] = struct{}{}
			client.Hub = h
			close(reg.Done)

		case client := <-h.Unregister:
			conns := h.clients[client.UserID]
			if _, ok := conns[client]; !ok {
				continue
			}
			delete(conns, client)
			if len(conns) == 0 {
				delete(h.clients, client.UserID)
			}
			close(client.Send)

		case a := <-h.Activity:
			if !a.Notifies() {
				continue
			}
			for client := range h.clients[a.TargetUserID] {
				select {
				case client.Send <- a:
				default:
					slog.WarnContext(ctx, "skipping activity - channel full or client slow",
						"user_id", client.UserID)
				}
			}

		case <-ctx.Done():
			slog.InfoContext(ctx, "hub stopped", "reason", ctx.Err())
			return
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Publish hands a to the hub directly. It is used when no broker is
// configured.
func (h *Hub) Publish(ctx context.Context, a model.Activity) error {
	select {
	case h.Activity <- a:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
