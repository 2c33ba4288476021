// Package model defines the view and event types shared by handlers,
// components and the notification pipeline.
package model

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/johndosdos/warbler/internal/database"
)

// UserCard is the public face of a user.
type UserCard struct {
	ID       int64
	Username string
	ImageURL string
	Bio      string
}

// Profile is a user page: card, header, counts and the viewer's relation.
type Profile struct {
	UserCard
	HeaderImageURL string
	Location       string

	Messages  int64
	Followers int64
	Following int64
	Likes     int64

	IsOwner     bool
	IsFollowing bool
}

// Viewer is the authenticated user a page is rendered for; nil when
// anonymous.
type Viewer struct {
	ID       int64
	Username string
	ImageURL string
}

func NewUserCard(u database.User) UserCard {
	return UserCard{
		ID:       u.ID,
		Username: u.Username,
		ImageURL: u.ImageUrl,
		Bio:      u.Bio,
	}
}

func NewUserCards(users []database.User) []UserCard {
	cards := make([]UserCard, 0, len(users))
	for _, u := range users {
		cards = append(cards, NewUserCard(u))
	}
	return cards
}

func NewViewer(u database.User) *Viewer {
	return &Viewer{ID: u.ID, Username: u.Username, ImageURL: u.ImageUrl}
}

func timeOf(ts pgtype.Timestamptz) time.Time {
	if !ts.Valid {
		return time.Time{}
	}
	return ts.Time
}
