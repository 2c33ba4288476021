// Package handler serves Warbler's HTML pages and form posts.
package handler

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	viewLayout "github.com/johndosdos/warbler/components/layout"
	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/flash"
	"github.com/johndosdos/warbler/internal/model"
)

// ActivityPublisher delivers follow and like activities to the
// notification pipeline.
type ActivityPublisher interface {
	Publish(ctx context.Context, a model.Activity) error
}

type sanitizer interface {
	Sanitize(s string) string
}

var strictPolicy sanitizer = bluemonday.StrictPolicy()

// cleanText strips markup from user input. bluemonday escapes what it keeps,
// so the result is unescaped again; components escape on output.
func cleanText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// render writes a full page with any queued flash notices followed by
// notices raised while handling this request.
func render(w http.ResponseWriter, r *http.Request, status int, title string, viewer *model.Viewer, body templ.Component, notices ...flash.Message) {
	flashes := append(flash.Pop(w, r), notices...)

	var buf bytes.Buffer
	if err := viewLayout.Page(title, viewer, flashes, body).Render(r.Context(), &buf); err != nil {
		slog.ErrorContext(r.Context(), "failed to render component",
			"error", err,
			"path", r.URL.Path)
		http.Error(w, "Server error.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func notFound(w http.ResponseWriter, r *http.Request, viewer *model.Viewer, what string) {
	render(w, r, http.StatusNotFound, "Not found", viewer, viewLayout.NotFound(what))
}

func dbError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "error", err, "path", r.URL.Path)
	http.Error(w, "Database error.", http.StatusInternalServerError)
}

// optionalViewer resolves the identity on public pages. A stale identity is
// treated as anonymous.
func optionalViewer(r *http.Request, db database.Querier) *model.Viewer {
	ctx := r.Context()
	userID, err := auth.GetUserFromContext(ctx)
	if err != nil {
		return nil
	}
	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		if !database.IsNotFound(err) {
			slog.ErrorContext(ctx, "failed to load session user", "error", err, "user_id", userID)
		}
		return nil
	}
	return model.NewViewer(user)
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// likedSet returns the ids of the messages viewer has liked. It is empty for
// anonymous viewers.
func likedSet(ctx context.Context, db database.Querier, viewer *model.Viewer) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if viewer == nil {
		return liked, nil
	}
	ids, err := db.ListLikedMessageIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// backTo is the redirect target after a form post: the Referer when it
// points at this host, the home page otherwise.
func backTo(r *http.Request) string {
	ref := r.Referer()
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host != r.Host {
		return "/"
	}
	return u.RequestURI()
}

func publish(ctx context.Context, pub ActivityPublisher, a model.Activity) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, a); err != nil {
		slog.WarnContext(ctx, "failed to publish activity",
			"error", err,
			"type", a.Type,
			"actor_id", a.ActorID)
	}
}
