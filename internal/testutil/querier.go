package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/warbler/internal/database"
)

// QuerierSuite checks the relationship invariants every database.Querier
// must keep. newStore returns an empty store for each subtest.
func QuerierSuite(t *testing.T, newStore func(t *testing.T) database.Querier) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("search_users", func(t *testing.T) { testSearchUsers(t, newStore(t)) })
	t.Run("follows", func(t *testing.T) { testFollows(t, newStore(t)) })
	t.Run("toggle_like", func(t *testing.T) { testToggleLike(t, newStore(t)) })
	t.Run("concurrent_toggle_like", func(t *testing.T) { testConcurrentToggleLike(t, newStore(t)) })
	t.Run("messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("delete_user_cascades", func(t *testing.T) { testDeleteUser(t, newStore(t)) })
}

// SeedUsers creates testuser (8989), abc (778) and efg (884).
func SeedUsers(t *testing.T, db database.Querier) {
	t.Helper()
	for _, u := range []database.CreateUserParams{
		{ID: 8989, Username: "testuser", Email: "test@test.com", HashedPassword: "x"},
		{ID: 778, Username: "abc", Email: "test1@test.com", HashedPassword: "x"},
		{ID: 884, Username: "efg", Email: "test2@test.com", HashedPassword: "x"},
	} {
		_, err := db.CreateUser(context.Background(), u)
		require.NoError(t, err)
	}
}

func testUsers(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)

	u, err := db.GetUserByID(ctx, 8989)
	require.NoError(t, err)
	assert.Equal(t, "testuser", u.Username)
	assert.Equal(t, "/static/images/default-pic.png", u.ImageUrl)

	auto, err := db.CreateUser(ctx, database.CreateUserParams{Username: "hij", Email: "test3@test.com", HashedPassword: "x"})
	require.NoError(t, err)
	assert.NotZero(t, auto.ID)

	_, err = db.CreateUser(ctx, database.CreateUserParams{Username: "abc", Email: "new@test.com", HashedPassword: "x"})
	assert.True(t, database.IsUniqueViolation(err), "duplicate username: %v", err)

	_, err = db.CreateUser(ctx, database.CreateUserParams{Username: "new", Email: "test1@test.com", HashedPassword: "x"})
	assert.True(t, database.IsUniqueViolation(err), "duplicate email: %v", err)

	_, err = db.GetUserByID(ctx, 4242)
	assert.True(t, database.IsNotFound(err))

	found, err := db.SearchUsers(ctx, "E")
	require.NoError(t, err)
	var names []string
	for _, u := range found {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"efg", "testuser"}, names)
}

func testSearchUsers(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)
	for _, name := range []string{"a_c", "100%real", `back\slash`} {
		_, err := db.CreateUser(ctx, database.CreateUserParams{Username: name, Email: name + "@test.com", HashedPassword: "x"})
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"100%real", "a_c", "abc", `back\slash`, "efg", "testuser"}},
		{"E", []string{"efg", "testuser"}},
		{"a_c", []string{"a_c"}},
		{"_", []string{"a_c"}},
		{"%", []string{"100%real"}},
		{"0%r", []string{"100%real"}},
		{`\`, []string{`back\slash`}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := db.SearchUsers(ctx, tt.query)
			require.NoError(t, err)
			var names []string
			for _, u := range found {
				names = append(names, u.Username)
			}
			// Collation decides the order of punctuation, so only the set is checked.
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}

func testFollows(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)

	followParams := func(follower, followed int64) database.FollowUserParams {
		return database.FollowUserParams{UserBeingFollowedID: followed, UserFollowingID: follower}
	}

	n, err := db.FollowUser(ctx, followParams(8989, 778))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.FollowUser(ctx, followParams(8989, 778))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "an ordered pair is followed at most once")

	_, err = db.FollowUser(ctx, followParams(8989, 884))
	require.NoError(t, err)
	_, err = db.FollowUser(ctx, followParams(778, 8989))
	require.NoError(t, err)

	_, err = db.FollowUser(ctx, followParams(8989, 4242))
	assert.True(t, database.IsForeignKeyViolation(err), "missing user: %v", err)

	usernames := func(users []database.User) []string {
		out := []string{}
		for _, u := range users {
			out = append(out, u.Username)
		}
		return out
	}

	followers, err := db.ListFollowers(ctx, 8989)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, usernames(followers))

	following, err := db.ListFollowing(ctx, 8989)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "efg"}, usernames(following))

	ok, err := db.IsFollowing(ctx, database.IsFollowingParams{UserBeingFollowedID: 884, UserFollowingID: 8989})
	require.NoError(t, err)
	assert.True(t, ok)

	stats, err := db.GetUserStats(ctx, 8989)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Followers)
	assert.Equal(t, int64(2), stats.Following)

	n, err = db.UnfollowUser(ctx, database.UnfollowUserParams{UserBeingFollowedID: 884, UserFollowingID: 8989})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.UnfollowUser(ctx, database.UnfollowUserParams{UserBeingFollowedID: 884, UserFollowingID: 8989})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func testToggleLike(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)
	_, err := db.CreateMessage(ctx, database.CreateMessageParams{ID: 1984, Text: "The earth is round", UserID: 778})
	require.NoError(t, err)

	params := database.ToggleLikeParams{UserID: 8989, MessageID: 1984}

	res, err := db.ToggleLike(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, database.ToggleLikeRow{Liked: true}, res)

	count, err := db.CountMessageLikes(ctx, 1984)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	ids, err := db.ListLikedMessageIDs(ctx, 8989)
	require.NoError(t, err)
	assert.Equal(t, []int64{1984}, ids)

	res, err = db.ToggleLike(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, database.ToggleLikeRow{Unliked: true}, res)

	count, err = db.CountLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// Liking your own message is allowed.
	res, err = db.ToggleLike(ctx, database.ToggleLikeParams{UserID: 778, MessageID: 1984})
	require.NoError(t, err)
	assert.True(t, res.Liked)

	_, err = db.ToggleLike(ctx, database.ToggleLikeParams{UserID: 8989, MessageID: 5555})
	assert.True(t, database.IsForeignKeyViolation(err), "missing message: %v", err)
}

func testConcurrentToggleLike(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)
	_, err := db.CreateMessage(ctx, database.CreateMessageParams{ID: 1984, Text: "The earth is round", UserID: 778})
	require.NoError(t, err)

	const n = 32
	var (
		wg             sync.WaitGroup
		mu             sync.Mutex
		liked, unliked int64
		errs           []error
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := db.ToggleLike(ctx, database.ToggleLikeParams{UserID: 8989, MessageID: 1984})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Liked {
				liked++
			}
			if res.Unliked {
				unliked++
			}
		}()
	}
	wg.Wait()
	require.Empty(t, errs)

	count, err := db.CountMessageLikes(ctx, 1984)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))
	assert.Equal(t, liked-unliked, count, "every reported toggle took effect")
}

func testMessages(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)

	msg, err := db.CreateMessage(ctx, database.CreateMessageParams{Text: "trending warble", UserID: 8989})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	_, err = db.CreateMessage(ctx, database.CreateMessageParams{Text: strings.Repeat("a", 141), UserID: 8989})
	assert.Error(t, err)

	_, err = db.CreateMessage(ctx, database.CreateMessageParams{Text: "orphan", UserID: 4242})
	assert.True(t, database.IsForeignKeyViolation(err), "missing author: %v", err)

	_, err = db.CreateMessage(ctx, database.CreateMessageParams{ID: 9876, Text: "likable warble", UserID: 778})
	require.NoError(t, err)
	_, err = db.ToggleLike(ctx, database.ToggleLikeParams{UserID: 8989, MessageID: 9876})
	require.NoError(t, err)

	row, err := db.GetMessage(ctx, 9876)
	require.NoError(t, err)
	assert.Equal(t, "abc", row.Username)

	_, err = db.FollowUser(ctx, database.FollowUserParams{UserBeingFollowedID: 778, UserFollowingID: 8989})
	require.NoError(t, err)
	timeline, err := db.ListTimeline(ctx, database.ListTimelineParams{UserID: 8989, MaxRows: 100})
	require.NoError(t, err)
	assert.Len(t, timeline, 2)

	liked, err := db.ListLikedMessages(ctx, 8989)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, int64(9876), liked[0].ID)

	n, err := db.DeleteMessage(ctx, database.DeleteMessageParams{ID: 9876, UserID: 8989})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, "only the author deletes")

	n, err = db.DeleteMessage(ctx, database.DeleteMessageParams{ID: 9876, UserID: 778})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := db.CountLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "likes go with their message")

	_, err = db.GetMessage(ctx, 9876)
	assert.True(t, database.IsNotFound(err))
}

func testSessions(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)
	now := time.Now().UTC()

	create := func(token string, expiresAt time.Time) {
		_, err := db.CreateSession(ctx, database.CreateSessionParams{
			Token:     token,
			UserID:    8989,
			CreatedAt: pgtype.Timestamptz{Time: now, Valid: true},
			ExpiresAt: pgtype.Timestamptz{Time: expiresAt, Valid: true},
		})
		require.NoError(t, err)
	}

	create("live", now.Add(time.Hour))
	create("expired", now.Add(-time.Minute))
	create("other", now.Add(time.Hour))

	sess, err := db.GetSession(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, int64(8989), sess.UserID)

	_, err = db.GetSession(ctx, "expired")
	assert.True(t, database.IsNotFound(err))

	require.NoError(t, db.RevokeSession(ctx, "live"))
	_, err = db.GetSession(ctx, "live")
	assert.True(t, database.IsNotFound(err))

	require.NoError(t, db.RevokeUserSessions(ctx, 8989))
	_, err = db.GetSession(ctx, "other")
	assert.True(t, database.IsNotFound(err))
}

func testDeleteUser(t *testing.T, db database.Querier) {
	ctx := context.Background()
	SeedUsers(t, db)

	_, err := db.CreateMessage(ctx, database.CreateMessageParams{ID: 9876, Text: "likable warble", UserID: 778})
	require.NoError(t, err)
	_, err = db.ToggleLike(ctx, database.ToggleLikeParams{UserID: 8989, MessageID: 9876})
	require.NoError(t, err)
	_, err = db.FollowUser(ctx, database.FollowUserParams{UserBeingFollowedID: 778, UserFollowingID: 8989})
	require.NoError(t, err)

	require.NoError(t, db.DeleteUser(ctx, 8989))

	stats, err := db.GetUserStats(ctx, 778)
	require.NoError(t, err)
	assert.Equal(t, database.GetUserStatsRow{Messages: 1}, stats)

	count, err := db.CountLikes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
