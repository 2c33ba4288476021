package auth

import (
	"log/slog"
	"net/http"

	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/flash"
)

// UnauthorizedNotice is the flash shown when a protected action is denied.
const UnauthorizedNotice = "Access unauthorized."

// HandlerFunc is a handler that runs on behalf of an authenticated viewer.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, viewer database.User)

// Deny rejects the request without touching any state: it queues the
// unauthorized notice and redirects to the home page.
func Deny(w http.ResponseWriter, r *http.Request) {
	flash.Add(w, r, flash.Danger, UnauthorizedNotice)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RequireUser runs next with the viewer resolved from the request context, or
// denies the request if there is no identity or it names a missing user.
func RequireUser(db database.Querier, next HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := GetUserFromContext(ctx)
		if err != nil {
			Deny(w, r)
			return
		}

		viewer, err := db.GetUserByID(ctx, userID)
		if err != nil {
			if !database.IsNotFound(err) {
				slog.ErrorContext(ctx, "failed to load session user",
					"error", err,
					"user_id", userID)
			}
			Deny(w, r)
			return
		}

		next(w, r, viewer)
	}
}
