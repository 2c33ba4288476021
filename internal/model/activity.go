package model

import "time"

const (
	ActivityFollow   = "follow"
	ActivityUnfollow = "unfollow"
	ActivityLike     = "like"
	ActivityUnlike   = "unlike"
)

// Activity is a relationship change addressed to TargetUserID. It is the
// payload of broker messages and websocket notifications.
type Activity struct {
	Type          string    `json:"type"`
	ActorID       int64     `json:"actor_id"`
	ActorUsername string    `json:"actor_username"`
	TargetUserID  int64     `json:"target_user_id"`
	MessageID     int64     `json:"message_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Notifies reports whether the target should see the activity. Removals are
// published for consumers but not pushed to users.
func (a Activity) Notifies() bool {
	if a.ActorID == a.TargetUserID {
		return false
	}
	return a.Type == ActivityFollow || a.Type == ActivityLike
}
