package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	viewMessages "github.com/johndosdos/warbler/components/messages"
	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/flash"
	"github.com/johndosdos/warbler/internal/model"
)

const maxMessageLen = 140

func ServeNewMessage(db database.Querier) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		render(w, r, http.StatusOK, "New message", model.NewViewer(viewer), viewMessages.NewMessage(""))
	})
}

// SubmitNewMessage stores a warble for the viewer and redirects to their
// profile.
func SubmitNewMessage(db database.Querier) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data.", http.StatusBadRequest)
			slog.WarnContext(ctx, "failed to parse form values", "error", err)
			return
		}

		raw := r.PostFormValue("text")
		text := strings.TrimSpace(cleanText(raw))

		var problem string
		switch {
		case text == "":
			problem = "Message text is required."
		case utf8.RuneCountInString(text) > maxMessageLen:
			problem = "Messages are limited to 140 characters."
		}
		if problem != "" {
			render(w, r, http.StatusOK, "New message", model.NewViewer(viewer), viewMessages.NewMessage(raw),
				flash.Message{Category: flash.Danger, Text: problem})
			return
		}

		msg, err := db.CreateMessage(ctx, database.CreateMessageParams{
			Text:   text,
			UserID: viewer.ID,
		})
		if err != nil {
			dbError(w, r, "failed to store message", err)
			return
		}

		slog.InfoContext(ctx, "message created",
			"message_id", msg.ID,
			"user_id", viewer.ID)

		http.Redirect(w, r, "/users/"+strconv.FormatInt(viewer.ID, 10), http.StatusSeeOther)
	})
}

// ServeMessage renders a single message. It needs no identity.
func ServeMessage(db database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		viewer := optionalViewer(r, db)

		id, ok := pathID(r)
		if !ok {
			notFound(w, r, viewer, "Message")
			return
		}

		row, err := db.GetMessage(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				notFound(w, r, viewer, "Message")
				return
			}
			dbError(w, r, "failed to load message", err)
			return
		}

		likes, err := db.CountMessageLikes(ctx, id)
		if err != nil {
			dbError(w, r, "failed to count likes", err)
			return
		}

		liked, err := likedSet(ctx, db, viewer)
		if err != nil {
			dbError(w, r, "failed to load likes", err)
			return
		}

		render(w, r, http.StatusOK, "@"+row.Username, viewer,
			viewMessages.MessageShow(viewer, model.NewMessage(row, liked), likes))
	}
}

// DeleteMessage removes a message. Only its author may do so; anyone else is
// denied.
func DeleteMessage(db database.Querier) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		ctx := r.Context()

		id, ok := pathID(r)
		if !ok {
			notFound(w, r, model.NewViewer(viewer), "Message")
			return
		}

		row, err := db.GetMessage(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				notFound(w, r, model.NewViewer(viewer), "Message")
				return
			}
			dbError(w, r, "failed to load message", err)
			return
		}
		if row.UserID != viewer.ID {
			auth.Deny(w, r)
			return
		}

		if _, err := db.DeleteMessage(ctx, database.DeleteMessageParams{ID: id, UserID: viewer.ID}); err != nil {
			dbError(w, r, "failed to delete message", err)
			return
		}

		http.Redirect(w, r, "/users/"+strconv.FormatInt(viewer.ID, 10), http.StatusSeeOther)
	})
}

// ToggleLike likes {id} for the viewer, or unlikes it if already liked, in a
// single store operation. It then sends the viewer back where they came from.
func ToggleLike(db database.Querier, pub ActivityPublisher) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		ctx := r.Context()

		id, ok := pathID(r)
		if !ok {
			notFound(w, r, model.NewViewer(viewer), "Message")
			return
		}

		msg, err := db.GetMessage(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				notFound(w, r, model.NewViewer(viewer), "Message")
				return
			}
			dbError(w, r, "failed to load message", err)
			return
		}

		res, err := db.ToggleLike(ctx, database.ToggleLikeParams{
			UserID:    viewer.ID,
			MessageID: id,
		})
		if err != nil {
			// The message was deleted between the lookup and the toggle.
			if database.IsForeignKeyViolation(err) {
				notFound(w, r, model.NewViewer(viewer), "Message")
				return
			}
			dbError(w, r, "failed to toggle like", err)
			return
		}

		kind := model.ActivityLike
		if res.Unliked {
			kind = model.ActivityUnlike
		}
		if res.Liked || res.Unliked {
			publish(ctx, pub, model.Activity{
				Type:          kind,
				ActorID:       viewer.ID,
				ActorUsername: viewer.Username,
				TargetUserID:  msg.UserID,
				MessageID:     id,
				CreatedAt:     time.Now().UTC(),
			})
		}

		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
	})
}
