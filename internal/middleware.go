package internal

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
)

// Middleware resolves the session identity and stores the user ID in the
// request context. It never rejects a request: handlers that need an
// identity wrap themselves in auth.RequireUser.
func Middleware(db database.Querier, opts auth.Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// A valid JWT is enough; no database round trip.
			if jwtCookie, err := r.Cookie(auth.JWTCookie); err == nil {
				if userID, err := auth.ValidateJWT(jwtCookie.Value, opts.Secret); err == nil {
					next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
					return
				}
			}

			// If the JWT is missing or stale, fall back to the server-side
			// session, which also re-issues the JWT.
			userID, err := auth.RefreshSession(w, r, db, opts)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					slog.WarnContext(r.Context(), "session refresh failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
		})
	}
}
