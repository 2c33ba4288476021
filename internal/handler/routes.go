package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/johndosdos/warbler/internal"
	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	ratelimiter "github.com/johndosdos/warbler/internal/rate_limiter"
	ws "github.com/johndosdos/warbler/internal/websocket"
)

// Deps are the collaborators the routes are wired to. Publisher and Hub may
// be nil, which disables notifications; Limiter may be nil, which disables
// rate limiting of the account forms.
type Deps struct {
	DB        database.Querier
	Auth      auth.Options
	Publisher ActivityPublisher
	Hub       *ws.Hub
	Limiter   *ratelimiter.IPRateLimiter
	StaticDir string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(internal.Middleware(d.DB, d.Auth))

	if d.StaticDir != "" {
		fs := http.FileServer(http.Dir(d.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fs))
	}

	limited := func(h http.HandlerFunc) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.Middleware(h)
	}

	r.Get("/", ServeHome(d.DB))

	r.Get("/signup", ServeSignupPage())
	r.Method(http.MethodPost, "/signup", limited(SubmitSignupForm(d.DB, d.Auth)))
	r.Get("/login", ServeLoginPage())
	r.Method(http.MethodPost, "/login", limited(SubmitLoginForm(d.DB, d.Auth)))
	r.Post("/logout", SubmitLogoutReq(d.DB))

	r.Route("/users", func(r chi.Router) {
		r.Get("/", SearchUsers(d.DB))
		r.Post("/delete", DeleteAccount(d.DB))
		r.Post("/follow/{id}", FollowUser(d.DB, d.Publisher))
		r.Post("/stop-following/{id}", StopFollowing(d.DB, d.Publisher))
		r.Get("/{id}", ServeProfile(d.DB))
		r.Get("/{id}/followers", ServeFollowers(d.DB))
		r.Get("/{id}/following", ServeFollowing(d.DB))
		r.Get("/{id}/likes", ServeLikes(d.DB))
	})

	r.Route("/messages", func(r chi.Router) {
		r.Get("/new", ServeNewMessage(d.DB))
		r.Post("/new", SubmitNewMessage(d.DB))
		r.Get("/{id}", ServeMessage(d.DB))
		r.Post("/{id}/delete", DeleteMessage(d.DB))
		r.Post("/{id}/like", ToggleLike(d.DB, d.Publisher))
	})

	if d.Hub != nil {
		r.Get("/ws", ServeWs(d.Hub, d.DB))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		notFound(w, r, optionalViewer(r, d.DB), "Page")
	})

	return r
}

// RequestLogger emits one slog line per request, tagged with a request id
// that is also returned in X-Request-ID.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("X-Request-ID", reqID)

		next.ServeHTTP(ww, r)

		slog.InfoContext(r.Context(), "request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote_addr", r.RemoteAddr)
	})
}
