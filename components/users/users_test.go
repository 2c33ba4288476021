package users

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/warbler/internal/model"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var testViewer = &model.Viewer{ID: 8989, Username: "testuser"}

func TestProfileHeaderComponent(t *testing.T) {
	p := model.Profile{
		UserCard:  model.UserCard{ID: 778, Username: "abc", Bio: "hello"},
		Messages:  2,
		Followers: 1,
		Following: 4,
	}

	tests := []struct {
		name       string
		viewer     *model.Viewer
		profile    func(model.Profile) model.Profile
		contains   []string
		notContain []string
	}{
		{
			name:    "anonymous",
			viewer:  nil,
			profile: func(p model.Profile) model.Profile { return p },
			contains: []string{
				`<h4 class="username">@abc</h4>`,
				`<p class="bio">hello</p>`,
				`href="/users/778/followers"`,
				`<span class="stat-label">Following</span> <span class="stat-value">4</span>`,
			},
			notContain: []string{"/users/follow/", "/users/stop-following/", "/users/delete", `class="location"`},
		},
		{
			name:     "not_following",
			viewer:   testViewer,
			profile:  func(p model.Profile) model.Profile { return p },
			contains: []string{`action="/users/follow/778"`},
		},
		{
			name:   "following",
			viewer: testViewer,
			profile: func(p model.Profile) model.Profile {
				p.IsFollowing = true
				return p
			},
			contains: []string{`action="/users/stop-following/778"`},
		},
		{
			name:   "owner",
			viewer: &model.Viewer{ID: 778, Username: "abc"},
			profile: func(p model.Profile) model.Profile {
				p.IsOwner = true
				p.Location = "Lisbon"
				return p
			},
			contains:   []string{`action="/users/delete"`, `<p class="location">Lisbon</p>`},
			notContain: []string{"/users/follow/"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html := renderString(t, ProfileHeader(tt.viewer, tt.profile(p)))
			for _, s := range tt.contains {
				assert.Contains(t, html, s)
			}
			for _, s := range tt.notContain {
				assert.NotContains(t, html, s)
			}
		})
	}
}

func TestUserCardsComponent(t *testing.T) {
	html := renderString(t, UserCards(testViewer, []model.UserCard{
		{ID: 778, Username: "abc", Bio: "hello"},
		{ID: 884, Username: "efg"},
	}))
	assert.Contains(t, html, `<a href="/users/778">`)
	assert.Contains(t, html, `<p class="username">@abc</p>`)
	assert.Contains(t, html, `<p class="username">@efg</p>`)
	assert.Contains(t, html, `<p class="bio">hello</p>`)

	html = renderString(t, UserCards(testViewer, nil))
	assert.Contains(t, html, "Sorry, no users found.")
}

func TestProfilePages(t *testing.T) {
	p := model.Profile{UserCard: model.UserCard{ID: 778, Username: "abc"}}
	msgs := []model.Message{{ID: 9876, Text: "likable warble", UserID: 884, Username: "efg"}}

	html := renderString(t, Profile(testViewer, p, nil))
	assert.Contains(t, html, "@abc")
	assert.Contains(t, html, "No warbles yet.")

	html = renderString(t, Likes(testViewer, p, msgs))
	assert.Contains(t, html, "likable warble")
	assert.Contains(t, html, `action="/messages/9876/like"`)

	html = renderString(t, FollowList(testViewer, p, []model.UserCard{{ID: 884, Username: "efg"}}))
	assert.Contains(t, html, `<p class="username">@efg</p>`)
}

func TestUserSearchComponent(t *testing.T) {
	html := renderString(t, UserSearch(testViewer, `<ab>`, []model.UserCard{{ID: 778, Username: "abc"}}))
	assert.Contains(t, html, `<h3>Results for "&lt;ab&gt;"</h3>`)
	assert.Contains(t, html, "@abc")

	html = renderString(t, UserSearch(testViewer, "", nil))
	assert.NotContains(t, html, "Results for")
	assert.Contains(t, html, "Sorry, no users found.")
}
