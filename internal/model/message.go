package model

import (
	"time"

	"github.com/johndosdos/warbler/internal/database"
)

// Message holds one warble as rendered in a list.
type Message struct {
	ID        int64
	Text      string
	CreatedAt time.Time
	UserID    int64
	Username  string
	ImageURL  string

	// Liked is whether the viewer has liked the message.
	Liked bool
}

// messageRow is the column set shared by every message listing query.
type messageRow interface {
	database.GetMessageRow | database.ListUserMessagesRow |
		database.ListTimelineRow | database.ListLikedMessagesRow
}

// NewMessages converts query rows and marks the ones in liked.
func NewMessages[T messageRow](rows []T, liked map[int64]bool) []Message {
	out := make([]Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewMessage(row, liked))
	}
	return out
}

func NewMessage[T messageRow](row T, liked map[int64]bool) Message {
	// All members of messageRow share the same field set, so a conversion
	// through GetMessageRow is valid.
	r := database.GetMessageRow(row)
	return Message{
		ID:        r.ID,
		Text:      r.Text,
		CreatedAt: timeOf(r.CreatedAt),
		UserID:    r.UserID,
		Username:  r.Username,
		ImageURL:  r.ImageUrl,
		Liked:     liked[r.ID],
	}
}
