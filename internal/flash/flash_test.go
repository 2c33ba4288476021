package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carry copies the cookies set on rec onto a fresh request, like a browser
// following a redirect.
func carry(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAddPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Add(rec, httptest.NewRequest(http.MethodPost, "/messages/1/like", nil), Danger, "Access unauthorized.")

	req := carry(rec)
	popRec := httptest.NewRecorder()
	msgs := Pop(popRec, req)

	require.Len(t, msgs, 1)
	assert.Equal(t, Danger, msgs[0].Category)
	assert.Equal(t, "Access unauthorized.", msgs[0].Text)

	cleared := popRec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, cookieName, cleared[0].Name)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestAddKeepsQueued(t *testing.T) {
	first := httptest.NewRecorder()
	Add(first, httptest.NewRequest(http.MethodGet, "/", nil), Info, "one")

	second := httptest.NewRecorder()
	Add(second, carry(first), Success, "two")

	msgs := Pop(httptest.NewRecorder(), carry(second))
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "two", msgs[1].Text)
}

func TestPopEmpty(t *testing.T) {
	tests := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no_cookie", nil},
		{"bad_base64", &http.Cookie{Name: cookieName, Value: "%%%"}},
		{"bad_json", &http.Cookie{Name: cookieName, Value: "bm90LWpzb24"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			assert.Nil(t, Pop(rec, req))
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}
