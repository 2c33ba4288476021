package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/database/memdb"
)

const testSecret = "validtokensecret"

var testOpts = Options{
	Secret:     testSecret,
	AccessTTL:  5 * time.Minute,
	SessionTTL: 7 * 24 * time.Hour,
}

func seedUser(t *testing.T, db *memdb.Store) database.User {
	t.Helper()
	user, err := db.CreateUser(context.Background(), database.CreateUserParams{
		ID:             8989,
		Username:       "testuser",
		Email:          "test@test.com",
		HashedPassword: "not-used",
	})
	require.NoError(t, err)
	return user
}

func TestHashPassword(t *testing.T) {
	t.Run("unique hashes", func(t *testing.T) {
		pw := "password1234"
		hash, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("password hash fail #1: %+v", err)
		}

		hash2, err := HashPassword(pw)
		if err != nil {
			t.Fatalf("password hash fail #2: %+v", err)
		}

		if hash == hash2 {
			t.Fatalf("hash and hash2 are the same hashes; should be different: %s, %s", hash, hash2)
		}
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := HashPassword("")
		if err != nil {
			t.Errorf("HashPassword() failed on empty string: %+v", err)
		}
	})
}

func TestCheckPasswordHash(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		checkPw   string
		hash      string
		wantErr   bool
		wantMatch bool
	}{
		{"correct pw", "mypassword1234", "mypassword1234", "", false, true},
		{"incorrect pw", "mypassword1234", "passwordDD1234", "", false, false},
		{"wrong hash", "mypassword1234", "passwordDD1234", "not-a-hash", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hash string
			var err error

			if tt.hash != "" {
				hash = tt.hash
			} else {
				hash, err = HashPassword(tt.password)
				if err != nil {
					t.Fatalf("%+v", err)
				}
			}

			isMatch, err := CheckPasswordHash(tt.checkPw, hash)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckPasswordHash() error = %+v", err)
			}
			if isMatch != tt.wantMatch {
				t.Errorf("CheckPasswordHash() = %v, want %v", isMatch, tt.wantMatch)
			}
		})
	}
}

func TestJWT(t *testing.T) {
	t.Run("Valid_JWT", func(t *testing.T) {
		var userID int64 = 8989
		tokenString, err := MakeJWT(userID, testSecret, 15*time.Second)
		if err != nil {
			t.Fatalf("MakeJWT() error = %+v", err)
		}
		gotUserID, err := ValidateJWT(tokenString, testSecret)
		if err != nil {
			t.Fatalf("ValidateJWT() error = %+v", err)
		}
		if gotUserID != userID {
			t.Errorf("want = %+v, got = %+v", userID, gotUserID)
		}
	})

	t.Run("Incorrect_secret", func(t *testing.T) {
		tokenString, err := MakeJWT(778, testSecret, 15*time.Second)
		if err != nil {
			t.Fatalf("MakeJWT() error = %+v", err)
		}
		_, err = ValidateJWT(tokenString, "fakesecret")
		if err == nil {
			t.Fatal("ValidateJWT() expected error for wrong secret")
		}
	})

	t.Run("Expired_token", func(t *testing.T) {
		tokenString, err := MakeJWT(778, testSecret, -1*time.Second)
		if err != nil {
			t.Fatalf("MakeJWT() error = %+v", err)
		}
		_, err = ValidateJWT(tokenString, testSecret)
		if err == nil {
			t.Fatal("ValidateJWT() expected error for expired token")
		}
	})

	t.Run("Corrupt_token", func(t *testing.T) {
		_, err := ValidateJWT("corrupttoken", testSecret)
		if err == nil {
			t.Fatal("ValidateJWT() expected error for corrupt token")
		}
	})
}

func TestGetUserFromContext(t *testing.T) {
	t.Run("valid_user_id", func(t *testing.T) {
		ctx := WithUserID(context.Background(), 8989)
		gotUserID, err := GetUserFromContext(ctx)
		if err != nil {
			t.Fatalf("GetUserFromContext(): expected userID but got error = %+v", err)
		}
		if gotUserID != 8989 {
			t.Errorf("want %d but got %d", 8989, gotUserID)
		}
	})

	t.Run("wrong_type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), UserIDKey, "8989")
		_, err := GetUserFromContext(ctx)
		if err == nil {
			t.Fatal("GetUserFromContext(): expected error but got none")
		}
	})

	t.Run("zero_user_id", func(t *testing.T) {
		ctx := WithUserID(context.Background(), 0)
		_, err := GetUserFromContext(ctx)
		if err == nil {
			t.Fatal("GetUserFromContext(): expected error but got none")
		}
	})

	t.Run("no_context", func(t *testing.T) {
		_, err := GetUserFromContext(context.Background())
		if err == nil {
			t.Fatal("GetUserFromContext(): expected error but got none")
		}
	})
}

func TestMakeSessionToken(t *testing.T) {
	db := memdb.NewStore()
	user := seedUser(t, db)

	t.Run("valid_session", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		token, err := MakeSessionToken(ctx, db, user.ID, testOpts.SessionTTL)
		require.NoError(t, err)
		assert.Len(t, token, 64)

		sess, err := db.GetSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, sess.UserID)
	})

	t.Run("expired_session", func(t *testing.T) {
		ctx := context.Background()

		token, err := MakeSessionToken(ctx, db, user.ID, -1*time.Millisecond)
		require.NoError(t, err)

		_, err = db.GetSession(ctx, token)
		assert.True(t, database.IsNotFound(err), "expired session must not resolve, got %v", err)
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := MakeSessionToken(context.Background(), db, 4242, testOpts.SessionTTL)
		assert.Error(t, err)
	})
}

func TestSessionLifecycle(t *testing.T) {
	db := memdb.NewStore()
	user := seedUser(t, db)

	// Log in.
	loginRec := httptest.NewRecorder()
	loginReq := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, StartSession(loginRec, loginReq, db, user.ID, testOpts))

	cookies := map[string]*http.Cookie{}
	for _, c := range loginRec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, JWTCookie)
	require.Contains(t, cookies, SessionCookie)
	assert.True(t, cookies[SessionCookie].HttpOnly)
	assert.True(t, cookies[SessionCookie].Secure)

	gotID, err := ValidateJWT(cookies[JWTCookie].Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)

	// Refresh from the session cookie alone.
	refreshReq := httptest.NewRequest(http.MethodGet, "/", nil)
	refreshReq.AddCookie(cookies[SessionCookie])
	refreshRec := httptest.NewRecorder()

	gotID, err = RefreshSession(refreshRec, refreshReq, db, testOpts)
	require.NoError(t, err)
	assert.Equal(t, user.ID, gotID)
	require.Len(t, refreshRec.Result().Cookies(), 1)
	assert.Equal(t, JWTCookie, refreshRec.Result().Cookies()[0].Name)

	// Log out; the session can no longer be refreshed.
	logoutReq := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logoutReq.AddCookie(cookies[SessionCookie])
	require.NoError(t, EndSession(httptest.NewRecorder(), logoutReq, db))

	_, err = RefreshSession(httptest.NewRecorder(), refreshReq, db, testOpts)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRefreshSessionNoCookie(t *testing.T) {
	db := memdb.NewStore()
	_, err := RefreshSession(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), db, testOpts)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRequireUser(t *testing.T) {
	db := memdb.NewStore()
	user := seedUser(t, db)

	tests := []struct {
		name       string
		ctx        context.Context
		wantCalled bool
		wantCode   int
	}{
		{"valid_identity", WithUserID(context.Background(), user.ID), true, http.StatusOK},
		{"no_identity", context.Background(), false, http.StatusSeeOther},
		{"deleted_user", WithUserID(context.Background(), 4242), false, http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			h := RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
				called = true
				assert.Equal(t, user.ID, viewer.ID)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodPost, "/messages/1/like", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantCode, rec.Code)
			if !tt.wantCalled {
				assert.Equal(t, "/", rec.Header().Get("Location"))
				assert.NotEmpty(t, rec.Result().Cookies(), "denial must queue a flash notice")
			}
		})
	}
}
