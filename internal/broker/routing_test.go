package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johndosdos/warbler/internal/model"
)

func TestSubject(t *testing.T) {
	tests := []struct {
		name   string
		userID int64
		want   string
	}{
		{"user", 8989, "ACTIVITY.user.8989"},
		{"zero", 0, "ACTIVITY.user.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Subject(tt.userID))
		})
	}
}

func TestPublisherNilJetStream(t *testing.T) {
	_, err := Publisher(t.Context(), nil, model.Activity{Type: model.ActivityLike, ActorID: 778, TargetUserID: 8989})
	assert.Error(t, err)
}
