package domain

import "time"

// UserSummary is the denormalized participant shape the marketplace API
// returns inside a conversation.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Conversation mirrors a marketplace conversation. Exactly two participants:
// the current user and one counterpart.
type Conversation struct {
	ID           string        `json:"id"`
	Participants []UserSummary `json:"participants"`
	LastMessage  *Message      `json:"last_message,omitempty"`
	// UnreadCount is the server-reported running total. It may be stale
	// relative to what the user has already viewed, so the display badge is
	// derived from LastMessage instead. Kept for API fidelity only.
	UnreadCount int       `json:"unread_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Counterpart returns the participant that is not the given user. The second
// return value is false when the conversation has no such participant, which
// indicates inconsistent upstream data.
func (c Conversation) Counterpart(currentUserID string) (UserSummary, bool) {
	for _, p := range c.Participants {
		if p.ID != currentUserID {
			return p, true
		}
	}
	return UserSummary{}, false
}

// HasParticipant reports whether the given user id is one of the two
// participants.
func (c Conversation) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
