package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	viewUsers "github.com/johndosdos/warbler/components/users"
	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/model"
)

// loadProfile builds the profile header for userID as seen by viewer.
// A missing user is reported with database.IsNotFound.
func loadProfile(ctx context.Context, db database.Querier, userID int64, viewer *model.Viewer) (model.Profile, error) {
	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return model.Profile{}, err
	}

	stats, err := db.GetUserStats(ctx, userID)
	if err != nil {
		return model.Profile{}, fmt.Errorf("internal/handler: failed to load stats: %w", err)
	}

	p := model.Profile{
		UserCard:       model.NewUserCard(user),
		HeaderImageURL: user.HeaderImageUrl,
		Location:       user.Location,
		Messages:       stats.Messages,
		Followers:      stats.Followers,
		Following:      stats.Following,
		Likes:          stats.Likes,
	}

	if viewer == nil {
		return p, nil
	}
	p.IsOwner = viewer.ID == user.ID
	if !p.IsOwner {
		p.IsFollowing, err = db.IsFollowing(ctx, database.IsFollowingParams{
			UserBeingFollowedID: user.ID,
			UserFollowingID:     viewer.ID,
		})
		if err != nil {
			return model.Profile{}, fmt.Errorf("internal/handler: failed to load follow state: %w", err)
		}
	}
	return p, nil
}

// profileOrFail loads the {id} profile, writing a 404 or 500 when it cannot.
func profileOrFail(w http.ResponseWriter, r *http.Request, db database.Querier, viewer *model.Viewer) (model.Profile, bool) {
	id, ok := pathID(r)
	if !ok {
		notFound(w, r, viewer, "User")
		return model.Profile{}, false
	}

	p, err := loadProfile(r.Context(), db, id, viewer)
	if err != nil {
		if database.IsNotFound(err) {
			notFound(w, r, viewer, "User")
			return model.Profile{}, false
		}
		dbError(w, r, "failed to load profile", err)
		return model.Profile{}, false
	}
	return p, true
}

// ServeProfile renders a public user page. It needs no identity.
func ServeProfile(db database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		viewer := optionalViewer(r, db)

		p, ok := profileOrFail(w, r, db, viewer)
		if !ok {
			return
		}

		rows, err := db.ListUserMessages(ctx, database.ListUserMessagesParams{
			UserID: p.ID,
			Limit:  listLimit,
		})
		if err != nil {
			dbError(w, r, "failed to load messages", err)
			return
		}

		liked, err := likedSet(ctx, db, viewer)
		if err != nil {
			dbError(w, r, "failed to load likes", err)
			return
		}

		render(w, r, http.StatusOK, "@"+p.Username, viewer,
			viewUsers.Profile(viewer, p, model.NewMessages(rows, liked)))
	}
}

// ServeFollowers lists the users following {id}.
func ServeFollowers(db database.Querier) http.HandlerFunc {
	return serveFollowList(db, "Followers", db.ListFollowers)
}

// ServeFollowing lists the users {id} follows.
func ServeFollowing(db database.Querier) http.HandlerFunc {
	return serveFollowList(db, "Following", db.ListFollowing)
}

func serveFollowList(db database.Querier, title string, list func(context.Context, int64) ([]database.User, error)) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, user database.User) {
		viewer := model.NewViewer(user)

		p, ok := profileOrFail(w, r, db, viewer)
		if !ok {
			return
		}

		users, err := list(r.Context(), p.ID)
		if err != nil {
			dbError(w, r, "failed to list "+strings.ToLower(title), err)
			return
		}

		render(w, r, http.StatusOK, title+" of @"+p.Username, viewer,
			viewUsers.FollowList(viewer, p, model.NewUserCards(users)))
	})
}

// ServeLikes lists the messages {id} has liked.
func ServeLikes(db database.Querier) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, user database.User) {
		ctx := r.Context()
		viewer := model.NewViewer(user)

		p, ok := profileOrFail(w, r, db, viewer)
		if !ok {
			return
		}

		rows, err := db.ListLikedMessages(ctx, p.ID)
		if err != nil {
			dbError(w, r, "failed to list liked messages", err)
			return
		}

		liked, err := likedSet(ctx, db, viewer)
		if err != nil {
			dbError(w, r, "failed to load likes", err)
			return
		}

		render(w, r, http.StatusOK, "Likes of @"+p.Username, viewer,
			viewUsers.Likes(viewer, p, model.NewMessages(rows, liked)))
	})
}

// FollowUser adds a viewer -> {id} edge. Following twice is a no-op.
func FollowUser(db database.Querier, pub ActivityPublisher) http.HandlerFunc {
	return changeFollow(db, pub, model.ActivityFollow)
}

// StopFollowing removes the viewer -> {id} edge if it exists.
func StopFollowing(db database.Querier, pub ActivityPublisher) http.HandlerFunc {
	return changeFollow(db, pub, model.ActivityUnfollow)
}

func changeFollow(db database.Querier, pub ActivityPublisher, kind string) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		ctx := r.Context()

		id, ok := pathID(r)
		if !ok {
			notFound(w, r, model.NewViewer(viewer), "User")
			return
		}

		target, err := db.GetUserByID(ctx, id)
		if err != nil {
			if database.IsNotFound(err) {
				notFound(w, r, model.NewViewer(viewer), "User")
				return
			}
			dbError(w, r, "failed to load user", err)
			return
		}

		var changed int64
		if kind == model.ActivityFollow {
			changed, err = db.FollowUser(ctx, database.FollowUserParams{
				UserBeingFollowedID: target.ID,
				UserFollowingID:     viewer.ID,
			})
		} else {
			changed, err = db.UnfollowUser(ctx, database.UnfollowUserParams{
				UserBeingFollowedID: target.ID,
				UserFollowingID:     viewer.ID,
			})
		}
		if err != nil {
			dbError(w, r, "failed to update follow", err)
			return
		}

		if changed > 0 {
			publish(ctx, pub, model.Activity{
				Type:          kind,
				ActorID:       viewer.ID,
				ActorUsername: viewer.Username,
				TargetUserID:  target.ID,
				CreatedAt:     time.Now().UTC(),
			})
		}

		http.Redirect(w, r, "/users/"+strconv.FormatInt(viewer.ID, 10)+"/following", http.StatusSeeOther)
	})
}

// SearchUsers matches usernames containing ?q. An empty query lists everyone.
func SearchUsers(db database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer := optionalViewer(r, db)
		q := strings.TrimSpace(r.URL.Query().Get("q"))

		users, err := db.SearchUsers(r.Context(), q)
		if err != nil {
			dbError(w, r, "failed to search users", err)
			return
		}

		render(w, r, http.StatusOK, "Users", viewer,
			viewUsers.UserSearch(viewer, q, model.NewUserCards(users)))
	}
}
