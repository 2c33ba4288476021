package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/johndosdos/warbler/internal/database"
)

const (
	JWTCookie     = "jwt"
	SessionCookie = "session"
)

// ErrNoSession means the request carries no usable session cookie.
var ErrNoSession = errors.New("internal/auth: no active session")

// MakeSessionToken stores a new server-side session for userID and returns
// its opaque token.
func MakeSessionToken(ctx context.Context, db database.Querier, userID int64, expiresIn time.Duration) (string, error) {
	rnd := make([]byte, 32)

	// rand.Read() never returns an error.
	_, _ = rand.Read(rnd)
	rndStr := hex.EncodeToString(rnd)

	now := time.Now().UTC()
	sess, err := db.CreateSession(ctx, database.CreateSessionParams{
		Token:     rndStr,
		UserID:    userID,
		CreatedAt: pgtype.Timestamptz{Time: now, Valid: true},
		ExpiresAt: pgtype.Timestamptz{Time: now.Add(expiresIn), Valid: true},
	})
	if err != nil {
		return "", fmt.Errorf("internal/auth: database error: %w", err)
	}

	return sess.Token, nil
}

// StartSession logs userID in: it creates the session row and sets both the
// session and access-token cookies.
func StartSession(w http.ResponseWriter, r *http.Request, db database.Querier, userID int64, opts Options) error {
	token, err := MakeSessionToken(r.Context(), db, userID, opts.SessionTTL)
	if err != nil {
		return err
	}

	accessTok, err := MakeJWT(userID, opts.Secret, opts.AccessTTL)
	if err != nil {
		return fmt.Errorf("internal/auth: failed to make JWT: %w", err)
	}

	setCookie(w, SessionCookie, token, int(opts.SessionTTL.Seconds()))
	setCookie(w, JWTCookie, accessTok, int(opts.AccessTTL.Seconds()))

	return nil
}

// RefreshSession resolves the session cookie to a user and re-issues the
// access token. It returns ErrNoSession when there is nothing to refresh.
func RefreshSession(w http.ResponseWriter, r *http.Request, db database.Querier, opts Options) (int64, error) {
	sessCookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return 0, ErrNoSession
	}

	sess, err := db.GetSession(r.Context(), sessCookie.Value)
	if err != nil {
		if database.IsNotFound(err) {
			return 0, ErrNoSession
		}
		return 0, fmt.Errorf("internal/auth: failed to retrieve session: %w", err)
	}

	accessTok, err := MakeJWT(sess.UserID, opts.Secret, opts.AccessTTL)
	if err != nil {
		return 0, fmt.Errorf("internal/auth: failed to make JWT: %w", err)
	}

	setCookie(w, JWTCookie, accessTok, int(opts.AccessTTL.Seconds()))

	return sess.UserID, nil
}

// EndSession revokes the server-side session, if any, and clears both cookies.
func EndSession(w http.ResponseWriter, r *http.Request, db database.Querier) error {
	var err error
	if sessCookie, cookieErr := r.Cookie(SessionCookie); cookieErr == nil {
		if revokeErr := db.RevokeSession(r.Context(), sessCookie.Value); revokeErr != nil {
			err = fmt.Errorf("internal/auth: failed to revoke session: %w", revokeErr)
		}
	}

	setCookie(w, JWTCookie, "", -1)
	setCookie(w, SessionCookie, "", -1)

	return err
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
