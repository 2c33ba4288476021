// Package auth renders the signup and login pages.
package auth

// SignupForm holds the values echoed back after a failed signup.
type SignupForm struct {
	Username string
	Email    string
	ImageURL string
}
