package handler

import (
	"log/slog"
	"net/http"
	"strings"

	viewAuth "github.com/johndosdos/warbler/components/auth"
	"github.com/johndosdos/warbler/internal/auth"
	"github.com/johndosdos/warbler/internal/database"
	"github.com/johndosdos/warbler/internal/flash"
)

const (
	invalidCredentials = "Invalid credentials."
	accountTaken       = "Username or email already taken."
	minPasswordLen     = 6
)

func ServeLoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "Log in", nil, viewAuth.Login(""))
	}
}

// SubmitLoginForm checks the username and password and starts a session.
func SubmitLoginForm(db database.Querier, opts auth.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data.", http.StatusBadRequest)
			slog.WarnContext(ctx, "failed to parse form values", "error", err)
			return
		}

		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")

		fail := func() {
			flash.Add(w, r, flash.Danger, invalidCredentials)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}

		user, err := db.GetUserByUsername(ctx, username)
		if err != nil {
			if !database.IsNotFound(err) {
				dbError(w, r, "failed to retrieve user from db", err)
				return
			}
			fail()
			return
		}

		// A stored hash that cannot be parsed never matches.
		ok, err := auth.CheckPasswordHash(password, user.HashedPassword)
		if err != nil {
			slog.ErrorContext(ctx, "cannot verify password, hash may be corrupted",
				"error", err,
				"user_id", user.ID)
			fail()
			return
		}
		if !ok {
			fail()
			return
		}

		if err := auth.StartSession(w, r, db, user.ID, opts); err != nil {
			dbError(w, r, "failed to start session", err)
			return
		}

		flash.Add(w, r, flash.Success, "Hello, "+user.Username+"!")
		http.Redirect(w, r, "/", http.StatusSeeOther)

		slog.InfoContext(ctx, "user logged in",
			slog.String("username", user.Username))
	}
}

func ServeSignupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, http.StatusOK, "Sign up", nil, viewAuth.Signup(viewAuth.SignupForm{}))
	}
}

// SubmitSignupForm creates the account and logs it in.
func SubmitSignupForm(db database.Querier, opts auth.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data.", http.StatusBadRequest)
			slog.WarnContext(ctx, "failed to parse form values", "error", err)
			return
		}

		form := viewAuth.SignupForm{
			Username: cleanText(strings.TrimSpace(r.PostFormValue("username"))),
			Email:    strings.TrimSpace(r.PostFormValue("email")),
			ImageURL: strings.TrimSpace(r.PostFormValue("image_url")),
		}
		password := r.PostFormValue("password")

		invalid := func(msg string) {
			render(w, r, http.StatusOK, "Sign up", nil, viewAuth.Signup(form),
				flash.Message{Category: flash.Danger, Text: msg})
		}

		switch {
		case form.Username == "" || form.Email == "":
			invalid("Username and email are required.")
			return
		case len(password) < minPasswordLen:
			invalid("Password must be at least 6 characters.")
			return
		}

		hashedPw, err := auth.HashPassword(password)
		if err != nil {
			http.Error(w, "Server error.", http.StatusInternalServerError)
			slog.ErrorContext(ctx, "argon2id hash creation failed", "error", err)
			return
		}

		user, err := db.CreateUser(ctx, database.CreateUserParams{
			Username:       form.Username,
			Email:          form.Email,
			ImageUrl:       form.ImageURL,
			HashedPassword: hashedPw,
		})
		if err != nil {
			if database.IsUniqueViolation(err) {
				invalid(accountTaken)
				return
			}
			dbError(w, r, "failed to create user entry in database", err)
			return
		}

		if err := auth.StartSession(w, r, db, user.ID, opts); err != nil {
			dbError(w, r, "failed to start session", err)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)

		slog.InfoContext(ctx, "user signed up",
			slog.String("username", user.Username))
	}
}

// SubmitLogoutReq revokes the session and clears the auth cookies.
func SubmitLogoutReq(db database.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := auth.EndSession(w, r, db); err != nil {
			slog.WarnContext(r.Context(), "failed to process session revocation", "error", err)
		}
		flash.Add(w, r, flash.Success, "You have been logged out.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// DeleteAccount removes the viewer. Messages, likes, follows and sessions go
// with it by cascade.
func DeleteAccount(db database.Querier) http.HandlerFunc {
	return auth.RequireUser(db, func(w http.ResponseWriter, r *http.Request, viewer database.User) {
		ctx := r.Context()

		if err := db.DeleteUser(ctx, viewer.ID); err != nil {
			dbError(w, r, "failed to delete user", err)
			return
		}
		if err := auth.EndSession(w, r, db); err != nil {
			slog.WarnContext(ctx, "failed to process session revocation", "error", err)
		}

		flash.Add(w, r, flash.Info, "Your account has been deleted.")
		http.Redirect(w, r, "/signup", http.StatusSeeOther)

		slog.InfoContext(ctx, "user deleted",
			slog.String("username", viewer.Username))
	})
}
