package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"unistay-inbox/internal/domain"
)

const me = "user-1"

func conv(id string, last *domain.Message) domain.Conversation {
	return domain.Conversation{
		ID: id,
		Participants: []domain.UserSummary{
			{ID: me, FirstName: "Sam"},
			{ID: "user-2", FirstName: "Alex"},
		},
		LastMessage: last,
		CreatedAt:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestDisplayUnreadCount(t *testing.T) {
	incomingUnread := &domain.Message{ID: "m1", SenderID: "user-2", ReceiverID: me, IsRead: false}
	incomingRead := &domain.Message{ID: "m2", SenderID: "user-2", ReceiverID: me, IsRead: true}
	outgoingUnread := &domain.Message{ID: "m3", SenderID: me, ReceiverID: "user-2", IsRead: false}

	tests := []struct {
		name       string
		last       *domain.Message
		selectedID string
		opened     []string
		want       int
	}{
		{name: "incoming unread last message", last: incomingUnread, want: 1},
		{name: "selected conversation is always read", last: incomingUnread, selectedID: "c1", want: 0},
		{name: "opened earlier this session", last: incomingUnread, opened: []string{"c1"}, want: 0},
		{name: "no last message", last: nil, want: 0},
		{name: "incoming already read", last: incomingRead, want: 0},
		{name: "own unread message does not count", last: outgoingUnread, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			read := NewReadSet()
			for _, id := range tt.opened {
				read.Add(id)
			}
			got := DisplayUnreadCount(conv("c1", tt.last), tt.selectedID, read, me)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayUnreadCountIgnoresServerTotal(t *testing.T) {
	// The backend may report any running total; only the last message decides
	// the badge.
	c := conv("c1", &domain.Message{SenderID: "user-2", ReceiverID: me, IsRead: true})
	c.UnreadCount = 7
	assert.Equal(t, 0, DisplayUnreadCount(c, "", NewReadSet(), me))
}

func TestReadSet(t *testing.T) {
	read := NewReadSet()
	assert.False(t, read.Has("c1"))
	read.Add("c1")
	assert.True(t, read.Has("c1"))
	read.Add("c1")
	assert.True(t, read.Has("c1"))
	assert.False(t, read.Has("c2"))
}
