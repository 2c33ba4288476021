package auth

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupComponent(t *testing.T) {
	var buf bytes.Buffer

	err := Signup(SignupForm{Username: "abc", Email: "test1@test.com"}).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<form")
	assert.Contains(t, html, `action="/signup"`)
	assert.Contains(t, html, `name="username"`)
	assert.Contains(t, html, `value="abc"`)
	assert.Contains(t, html, `name="email"`)
	assert.Contains(t, html, `value="test1@test.com"`)
	assert.Contains(t, html, `name="password"`)
	assert.Contains(t, html, `name="image_url"`)
	assert.Contains(t, html, `type="submit"`)
	assert.Contains(t, html, `href="/login"`)
}

func TestLoginComponent(t *testing.T) {
	var buf bytes.Buffer

	err := Login(`"><b>x</b>`).Render(context.Background(), &buf)
	assert.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `action="/login"`)
	assert.Contains(t, html, `value="&#34;&gt;&lt;b&gt;x&lt;/b&gt;"`)
	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, `href="/signup"`)
}
