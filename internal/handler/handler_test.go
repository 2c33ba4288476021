package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/database/memdb"
	"github.com/johndosdos/warbler/internal/model"
)

const (
	testSecret = "handlertestsecret"

	testuserID int64 = 8989
	abcID      int64 = 778
	efgID      int64 = 884
)

var testOpts = auth.Options{
	Secret:     testSecret,
	AccessTTL:  5 * time.Minute,
	SessionTTL: time.Hour,
}

type recordingPublisher struct {
	mu         sync.Mutex
	activities []model.Activity
}

func (p *recordingPublisher) Publish(_ context.Context, a model.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activities = append(p.activities, a)
	return nil
}

func (p *recordingPublisher) all() []model.Activity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Activity(nil), p.activities...)
}

type testApp struct {
	*httptest.Server
	db  *memdb.Store
	pub *recordingPublisher
}

func newTestApp(t *testing.T, opts ...func(*Deps)) *testApp {
	t.Helper()
	db := memdb.NewStore()
	pub := &recordingPublisher{}

	deps := Deps{DB: db, Auth: testOpts, Publisher: pub}
	for _, opt := range opts {
		opt(&deps)
	}

	srv := httptest.NewTLSServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return &testApp{Server: srv, db: db, pub: pub}
}

// browser returns a client with its own cookie jar that follows redirects.
func (a *testApp) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := *a.Server.Client()
	c.Jar = jar
	return &c
}

// browserAs is a browser already holding a session for userID.
func (a *testApp) browserAs(t *testing.T, userID int64) *http.Client {
	t.Helper()
	c := a.browser(t)
	tok, err := auth.MakeJWT(userID, testSecret, time.Minute)
	require.NoError(t, err)
	u, err := url.Parse(a.URL)
	require.NoError(t, err)
	c.Jar.SetCookies(u, []*http.Cookie{{Name: auth.JWTCookie, Value: tok, Path: "/"}})
	return c
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	p, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(p)
}

func (a *testApp) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(a.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) post(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.PostForm(a.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func seedUsers(t *testing.T, db *memdb.Store) {
	t.Helper()
	ctx := context.Background()
	users := []database.CreateUserParams{
		{ID: testuserID, Username: "testuser", Email: "test@test.com"},
		{ID: abcID, Username: "abc", Email: "test1@test.com"},
		{ID: efgID, Username: "efg", Email: "test2@test.com"},
		{Username: "hij", Email: "test3@test.com"},
		{Username: "testing", Email: "test4@test.com"},
	}
	for _, u := range users {
		u.HashedPassword = "not-a-hash"
		_, err := db.CreateUser(ctx, u)
		require.NoError(t, err)
	}
}

func createMessage(t *testing.T, db *memdb.Store, id, userID int64, text string) {
	t.Helper()
	_, err := db.CreateMessage(context.Background(), database.CreateMessageParams{ID: id, Text: text, UserID: userID})
	require.NoError(t, err)
}

func follow(t *testing.T, db *memdb.Store, follower, followed int64) {
	t.Helper()
	_, err := db.FollowUser(context.Background(), database.FollowUserParams{
		UserBeingFollowedID: followed,
		UserFollowingID:     follower,
	})
	require.NoError(t, err)
}

func mustUserID(t *testing.T, db *memdb.Store, username string) int64 {
	t.Helper()
	u, err := db.GetUserByUsername(context.Background(), username)
	require.NoError(t, err)
	return u.ID
}

// setupLikes: testuser has two messages, abc owns 9876 which testuser likes.
func setupLikes(t *testing.T, db *memdb.Store) {
	t.Helper()
	createMessage(t, db, 0, testuserID, "trending warble")
	createMessage(t, db, 0, testuserID, "Eating some lunch")
	createMessage(t, db, 9876, abcID, "likable warble")

	res, err := db.ToggleLike(context.Background(), database.ToggleLikeParams{UserID: testuserID, MessageID: 9876})
	require.NoError(t, err)
	require.True(t, res.Liked)
}

// setupFollowers: testuser follows abc and efg; abc follows testuser.
func setupFollowers(t *testing.T, db *memdb.Store) {
	t.Helper()
	follow(t, db, testuserID, abcID)
	follow(t, db, testuserID, efgID)
	follow(t, db, abcID, testuserID)
}

func messageLikes(t *testing.T, db *memdb.Store, messageID int64) int64 {
	t.Helper()
	n, err := db.CountMessageLikes(context.Background(), messageID)
	require.NoError(t, err)
	return n
}

func TestUserShow(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)

	for _, id := range []int64{testuserID, abcID, efgID} {
		for _, who := range []string{"anonymous", "testuser"} {
			t.Run(who, func(t *testing.T) {
				c := app.browser(t)
				if who == "testuser" {
					c = app.browserAs(t, testuserID)
				}
				resp, _ := app.get(t, c, "/users/"+itoa(id))
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			})
		}
	}

	t.Run("missing_user", func(t *testing.T) {
		resp, body := app.get(t, app.browser(t), "/users/4242")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "User not found.")
	})
}

func TestAddLike(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	createMessage(t, app.db, 1984, abcID, "The earth is round")

	resp, _ := app.post(t, app.browserAs(t, testuserID), "/messages/1984/like", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(1), messageLikes(t, app.db, 1984))
	liked, err := app.db.ListLikedMessageIDs(context.Background(), testuserID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1984}, liked)

	activities := app.pub.all()
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityLike, activities[0].Type)
	assert.Equal(t, testuserID, activities[0].ActorID)
	assert.Equal(t, abcID, activities[0].TargetUserID)
	assert.Equal(t, int64(1984), activities[0].MessageID)
}

func TestRemoveLike(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)
	require.Equal(t, int64(1), messageLikes(t, app.db, 9876))

	resp, _ := app.post(t, app.browserAs(t, testuserID), "/messages/9876/like", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(0), messageLikes(t, app.db, 9876))

	// Unliking keeps the message.
	_, err := app.db.GetMessage(context.Background(), 9876)
	assert.NoError(t, err)

	activities := app.pub.all()
	require.Len(t, activities, 1)
	assert.Equal(t, model.ActivityUnlike, activities[0].Type)
}

func TestUnauthenticatedLike(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)

	before, err := app.db.CountLikes(context.Background())
	require.NoError(t, err)

	resp, body := app.post(t, app.browser(t), "/messages/9876/like", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Access unauthorized")
	assert.Equal(t, "/", resp.Request.URL.Path)

	after, err := app.db.CountLikes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, app.pub.all())
}

func TestLikeToggleTwiceRestoresCount(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)
	c := app.browserAs(t, efgID)

	before := messageLikes(t, app.db, 9876)
	app.post(t, c, "/messages/9876/like", nil)
	assert.Equal(t, before+1, messageLikes(t, app.db, 9876))
	app.post(t, c, "/messages/9876/like", nil)
	assert.Equal(t, before, messageLikes(t, app.db, 9876))
}

func TestConcurrentLikeToggles(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	createMessage(t, app.db, 1984, abcID, "The earth is round")
	c := app.browserAs(t, testuserID)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := c.PostForm(app.URL+"/messages/1984/like", nil)
			if err != nil {
				errs <- err
				return
			}
			resp.Body.Close()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.LessOrEqual(t, messageLikes(t, app.db, 1984), int64(1))
}

func TestLikeMissingMessage(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)

	resp, body := app.post(t, app.browserAs(t, testuserID), "/messages/5555/like", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Message not found.")
}

func TestLikeRedirect(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	createMessage(t, app.db, 1984, abcID, "The earth is round")

	tests := []struct {
		name     string
		referer  string
		wantPath string
	}{
		{"same_host", app.URL + "/users/778", "/users/778"},
		{"other_host", "https://example.com/users/778", "/"},
		{"none", "", "/"},
	}

	c := app.browserAs(t, testuserID)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, app.URL+"/messages/1984/like", nil)
			require.NoError(t, err)
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			resp, err := c.Do(req)
			require.NoError(t, err)
			readBody(t, resp)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantPath, resp.Request.URL.Path)
		})
	}
}

func TestShowFollowers(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupFollowers(t, app.db)

	resp, body := app.get(t, app.browserAs(t, testuserID), "/users/8989/followers")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, "@abc")
	assert.NotContains(t, body, "@efg")
	assert.NotContains(t, body, "@hij")
	assert.NotContains(t, body, "@testing")
}

func TestShowFollowing(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupFollowers(t, app.db)

	resp, body := app.get(t, app.browserAs(t, testuserID), "/users/8989/following")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, "@abc")
	assert.Contains(t, body, "@efg")
	assert.NotContains(t, body, "@hij")
	assert.NotContains(t, body, "@testing")
}

func TestShowLikes(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)

	resp, body := app.get(t, app.browserAs(t, efgID), "/users/8989/likes")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, "likable warble")
	assert.Contains(t, body, `action="/messages/9876/like"`)
	assert.NotContains(t, body, "Eating some lunch")
}

func TestFollowListsAreExactEdgeSets(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	hijID := mustUserID(t, app.db, "hij")

	// testuser -> abc, testuser -> efg, hij -> testuser
	follow(t, app.db, testuserID, abcID)
	follow(t, app.db, testuserID, efgID)
	follow(t, app.db, hijID, testuserID)

	c := app.browserAs(t, testuserID)

	_, followers := app.get(t, c, "/users/8989/followers")
	assert.Contains(t, followers, "@hij")
	assert.NotContains(t, followers, "@abc")
	assert.NotContains(t, followers, "@efg")

	_, following := app.get(t, c, "/users/8989/following")
	assert.Contains(t, following, "@abc")
	assert.Contains(t, following, "@efg")
	assert.NotContains(t, following, "@hij")
}

func TestUnauthorizedFollowListAccess(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupFollowers(t, app.db)

	for _, list := range []string{"followers", "following", "likes"} {
		t.Run(list, func(t *testing.T) {
			resp, body := app.get(t, app.browser(t), "/users/8989/"+list)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.NotContains(t, body, "@abc")
			assert.NotContains(t, body, "@efg")
			assert.Contains(t, body, "Access unauthorized")
		})
	}
}

func TestProtectedActionsDenyAnonymous(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)
	setupFollowers(t, app.db)
	ctx := context.Background()

	statsBefore, err := app.db.GetUserStats(ctx, testuserID)
	require.NoError(t, err)
	abcBefore, err := app.db.GetUserStats(ctx, abcID)
	require.NoError(t, err)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/users/follow/884"},
		{http.MethodPost, "/users/stop-following/778"},
		{http.MethodPost, "/users/delete"},
		{http.MethodGet, "/messages/new"},
		{http.MethodPost, "/messages/new"},
		{http.MethodPost, "/messages/9876/delete"},
		{http.MethodPost, "/messages/9876/like"},
	}

	for _, tt := range tests {
		t.Run(tt.method+tt.path, func(t *testing.T) {
			var body string
			if tt.method == http.MethodGet {
				_, body = app.get(t, app.browser(t), tt.path)
			} else {
				_, body = app.post(t, app.browser(t), tt.path, url.Values{"text": {"sneaky"}})
			}
			assert.Contains(t, body, "Access unauthorized")
		})
	}

	statsAfter, err := app.db.GetUserStats(ctx, testuserID)
	require.NoError(t, err)
	abcAfter, err := app.db.GetUserStats(ctx, abcID)
	require.NoError(t, err)
	assert.Equal(t, statsBefore, statsAfter)
	assert.Equal(t, abcBefore, abcAfter)
}

func TestStaleIdentityIsDenied(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)

	// A valid token for a user that does not exist.
	_, body := app.get(t, app.browserAs(t, 4242), "/users/8989/followers")
	assert.Contains(t, body, "Access unauthorized")
}

func TestDeleteMessage(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)
	ctx := context.Background()

	t.Run("non_author_denied", func(t *testing.T) {
		_, body := app.post(t, app.browserAs(t, testuserID), "/messages/9876/delete", nil)
		assert.Contains(t, body, "Access unauthorized")
		_, err := app.db.GetMessage(ctx, 9876)
		assert.NoError(t, err)
	})

	t.Run("author", func(t *testing.T) {
		resp, _ := app.post(t, app.browserAs(t, abcID), "/messages/9876/delete", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "/users/778", resp.Request.URL.Path)

		_, err := app.db.GetMessage(ctx, 9876)
		assert.True(t, database.IsNotFound(err))
		assert.Equal(t, int64(0), messageLikes(t, app.db, 9876), "likes go with the message")
	})
}

func TestFollowIsIdempotent(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	ctx := context.Background()
	c := app.browserAs(t, testuserID)

	for range 2 {
		resp, body := app.post(t, c, "/users/follow/778", nil)
		assert.Equal(t, "/users/8989/following", resp.Request.URL.Path)
		assert.Contains(t, body, "@abc")
	}

	stats, err := app.db.GetUserStats(ctx, abcID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Followers)

	for range 2 {
		app.post(t, c, "/users/stop-following/778", nil)
	}

	following, err := app.db.IsFollowing(ctx, database.IsFollowingParams{
		UserBeingFollowedID: abcID,
		UserFollowingID:     testuserID,
	})
	require.NoError(t, err)
	assert.False(t, following)

	var types []string
	for _, a := range app.pub.all() {
		types = append(types, a.Type)
	}
	assert.Equal(t, []string{model.ActivityFollow, model.ActivityUnfollow}, types)
}

func TestFollowMissingUser(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)

	resp, _ := app.post(t, app.browserAs(t, testuserID), "/users/follow/4242", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfileFollowButton(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupFollowers(t, app.db)

	_, body := app.get(t, app.browserAs(t, testuserID), "/users/778")
	assert.Contains(t, body, `action="/users/stop-following/778"`)

	_, body = app.get(t, app.browserAs(t, efgID), "/users/778")
	assert.Contains(t, body, `action="/users/follow/778"`)

	_, body = app.get(t, app.browser(t), "/users/778")
	assert.NotContains(t, body, "/users/follow/")
}

func TestHomeTimeline(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)
	follow(t, app.db, testuserID, abcID)
	createMessage(t, app.db, 0, efgID, "not followed")

	_, body := app.get(t, app.browserAs(t, testuserID), "/")
	assert.Contains(t, body, "trending warble")
	assert.Contains(t, body, "likable warble")
	assert.Contains(t, body, `aria-label="Unlike"`)
	assert.NotContains(t, body, "not followed")

	_, body = app.get(t, app.browser(t), "/")
	assert.Contains(t, body, "What's Happening?")
	assert.NotContains(t, body, "likable warble")
}

func TestAccountFlow(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	c := app.browser(t)

	resp, body := app.post(t, c, "/signup", url.Values{
		"username": {"newbie"},
		"email":    {"newbie@test.com"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "No warbles yet.")

	id := mustUserID(t, app.db, "newbie")

	resp, body = app.post(t, c, "/messages/new", url.Values{"text": {"<b>first</b> warble"}})
	assert.Equal(t, "/users/"+itoa(id), resp.Request.URL.Path)
	assert.Contains(t, body, "first warble")
	assert.NotContains(t, body, "<b>first</b>")

	_, body = app.post(t, c, "/logout", nil)
	assert.Contains(t, body, "You have been logged out.")

	_, body = app.get(t, c, "/users/"+itoa(id)+"/followers")
	assert.Contains(t, body, "Access unauthorized")

	_, body = app.post(t, c, "/login", url.Values{"username": {"newbie"}, "password": {"wrong-password"}})
	assert.Contains(t, body, "Invalid credentials.")

	_, body = app.post(t, c, "/login", url.Values{"username": {"newbie"}, "password": {"secret123"}})
	assert.Contains(t, body, "Hello, newbie!")

	resp, _ = app.get(t, c, "/users/"+itoa(id)+"/followers")
	assert.Equal(t, "/users/"+itoa(id)+"/followers", resp.Request.URL.Path)
}

// seedLoginUser stores a user whose password is hashed like a real signup.
func seedLoginUser(t *testing.T, db *memdb.Store, username, password string) database.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user, err := db.CreateUser(context.Background(), database.CreateUserParams{
		Username:       username,
		Email:          username + "@test.com",
		HashedPassword: hash,
	})
	require.NoError(t, err)
	return user
}

func TestLoginRejections(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	seedLoginUser(t, app.db, "loginuser", "right-password")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong_password", "loginuser", "wrong-password"},
		{"unknown_user", "nobody", "right-password"},
		// seedUsers stores "not-a-hash" for testuser.
		{"corrupt_stored_hash", "testuser", "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := app.browser(t)
			resp, body := app.post(t, c, "/login", url.Values{"username": {tt.username}, "password": {tt.password}})
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "/login", resp.Request.URL.Path)
			assert.Contains(t, body, "Invalid credentials.")

			resp, _ = app.get(t, c, "/users/8989/followers")
			assert.Equal(t, "/", resp.Request.URL.Path)
		})
	}
}

func TestSessionRefreshReissuesJWT(t *testing.T) {
	app := newTestApp(t)
	c := app.browser(t)

	app.post(t, c, "/signup", url.Values{
		"username": {"newbie"},
		"email":    {"newbie@test.com"},
		"password": {"secret123"},
	})
	id := mustUserID(t, app.db, "newbie")

	// Drop the access token; the session cookie must be enough.
	u, err := url.Parse(app.URL)
	require.NoError(t, err)
	c.Jar.SetCookies(u, []*http.Cookie{{Name: auth.JWTCookie, Value: "", Path: "/", MaxAge: -1}})

	resp, body := app.get(t, c, "/users/"+itoa(id)+"/following")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "Access unauthorized")

	var hasJWT bool
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == auth.JWTCookie && cookie.Value != "" {
			hasJWT = true
		}
	}
	assert.True(t, hasJWT, "JWT cookie re-issued")
}

func TestSignupRejections(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"taken_username", url.Values{"username": {"testuser"}, "email": {"other@test.com"}, "password": {"secret123"}}, "Username or email already taken."},
		{"taken_email", url.Values{"username": {"other"}, "email": {"test@test.com"}, "password": {"secret123"}}, "Username or email already taken."},
		{"short_password", url.Values{"username": {"other"}, "email": {"other@test.com"}, "password": {"abc"}}, "Password must be at least 6 characters."},
		{"missing_username", url.Values{"email": {"other@test.com"}, "password": {"secret123"}}, "Username and email are required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := app.post(t, app.browser(t), "/signup", tt.form)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "/signup", resp.Request.URL.Path)
			assert.Contains(t, body, tt.want)
		})
	}
}

func TestNewMessageValidation(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	c := app.browserAs(t, testuserID)

	_, body := app.post(t, c, "/messages/new", url.Values{"text": {strings.Repeat("a", 141)}})
	assert.Contains(t, body, "Messages are limited to 140 characters.")

	_, body = app.post(t, c, "/messages/new", url.Values{"text": {"<script></script>"}})
	assert.Contains(t, body, "Message text is required.")

	stats, err := app.db.GetUserStats(context.Background(), testuserID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Messages)
}

func TestMessageShow(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)

	resp, body := app.get(t, app.browser(t), "/messages/9876")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "likable warble")
	assert.Contains(t, body, `<span class="like-count">1</span>`)

	resp, _ = app.get(t, app.browser(t), "/messages/5555")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchUsers(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)

	_, body := app.get(t, app.browser(t), "/users?q=ab")
	assert.Contains(t, body, "@abc")
	assert.NotContains(t, body, "@efg")

	_, body = app.get(t, app.browser(t), "/users?q=zzz")
	assert.Contains(t, body, "Sorry, no users found.")
}

func TestDeleteAccount(t *testing.T) {
	app := newTestApp(t)
	seedUsers(t, app.db)
	setupLikes(t, app.db)
	setupFollowers(t, app.db)
	ctx := context.Background()

	resp, _ := app.post(t, app.browserAs(t, testuserID), "/users/delete", nil)
	assert.Equal(t, "/signup", resp.Request.URL.Path)

	_, err := app.db.GetUserByID(ctx, testuserID)
	assert.True(t, database.IsNotFound(err))

	stats, err := app.db.GetUserStats(ctx, abcID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Followers)
	assert.Equal(t, int64(0), stats.Following)
	assert.Equal(t, int64(0), messageLikes(t, app.db, 9876))
}

func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.get(t, app.browser(t), "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found.")
}
