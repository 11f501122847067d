package domain

import (
	"sort"
	"time"
)

// Message mirrors a marketplace message. Ids are opaque strings owned by the
// backend.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// SortMessages orders messages oldest first, the display order for a
// conversation pane. The sort is stable so equal timestamps keep the order
// the backend returned.
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
}
