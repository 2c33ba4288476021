package handler

import (
	"net/http"

	viewMessages "github.com/johndosdos/warbler/components/messages"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/model"
)

const listLimit = 100

// ServeHome renders the timeline for a viewer and the signup pitch for
// anonymous visitors.
func ServeHome(db database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		viewer := optionalViewer(r, db)
		if viewer == nil {
			render(w, r, http.StatusOK, "Home", nil, viewMessages.Home(nil, nil))
			return
		}

		rows, err := db.ListTimeline(ctx, database.ListTimelineParams{
			UserID:  viewer.ID,
			MaxRows: listLimit,
		})
		if err != nil {
			dbError(w, r, "failed to load timeline", err)
			return
		}

		liked, err := likedSet(ctx, db, viewer)
		if err != nil {
			dbError(w, r, "failed to load likes", err)
			return
		}

		render(w, r, http.StatusOK, "Home", viewer, viewMessages.Home(viewer, model.NewMessages(rows, liked)))
	}
}
