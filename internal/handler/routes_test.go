package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ratelimiter "github.com/johndosdos/warbler/internal/rate_limiter"
	ws "github.com/johndosdos/warbler/internal/websocket"
)

func TestRequestLoggerSetsRequestID(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, app.browser(t), "/")
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}

func TestLoginRateLimited(t *testing.T) {
	app := newTestApp(t, func(d *Deps) {
		rl := ratelimiter.NewIPRateLimiter(1, time.Minute, ratelimiter.CleanupOpts{TTL: time.Minute, Interval: time.Hour})
		t.Cleanup(rl.Cancel)
		d.Limiter = rl
	})
	seedUsers(t, app.db)
	seedLoginUser(t, app.db, "loginuser", "right-password")
	c := app.browser(t)
	form := url.Values{"username": {"loginuser"}, "password": {"wrong-password"}}

	_, body := app.post(t, c, "/login", form)
	assert.Contains(t, body, "Invalid credentials.")

	resp, body := app.post(t, c, "/login", form)
	assert.Equal(t, "/login", resp.Request.URL.Path)
	assert.Contains(t, body, ratelimiter.TooManyRequests)
	assert.NotContains(t, body, "Invalid credentials.")
}

func TestNotificationsWebsocket(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hub := ws.NewHub()
	go hub.Run(ctx, nil)

	app := newTestApp(t, func(d *Deps) {
		d.Hub = hub
		d.Publisher = hub
	})
	seedUsers(t, app.db)

	conn, resp, err := websocket.Dial(ctx, "wss"+strings.TrimPrefix(app.URL, "https")+"/ws",
		&websocket.DialOptions{HTTPClient: app.browserAs(t, testuserID)})
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	defer conn.CloseNow()

	received := make(chan string, 1)
	go func() {
		_, p, err := conn.Read(ctx)
		if err != nil {
			return
		}
		received <- string(p)
	}()

	// The socket may not be registered with the hub yet when Dial returns,
	// so follow and unfollow until a notification arrives.
	abc := app.browserAs(t, abcID)
	deadline := time.After(5 * time.Second)
	for {
		app.post(t, abc, "/users/follow/8989", nil)
		select {
		case msg := <-received:
			assert.Contains(t, msg, "@abc")
			assert.Contains(t, msg, "followed you.")
			return
		case <-time.After(100 * time.Millisecond):
			app.post(t, abc, "/users/stop-following/8989", nil)
		case <-deadline:
			t.Fatal("no notification received")
		}
	}
}

func TestWebsocketRequiresIdentity(t *testing.T) {
	hub := ws.NewHub()
	app := newTestApp(t, func(d *Deps) { d.Hub = hub })

	_, body := app.get(t, app.browser(t), "/ws")
	assert.Contains(t, body, "Access unauthorized")
}
