package inbox

import (
	"sync"

	"unistay-inbox/internal/domain"
)

// ReadSet tracks which conversations the current session has opened at least
// once. Membership suppresses the unread badge even when the backend still
// reports the last message as unread.
type ReadSet struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewReadSet() *ReadSet {
	return &ReadSet{ids: make(map[string]struct{})}
}

func (r *ReadSet) Add(conversationID string) {
	r.mu.Lock()
	r.ids[conversationID] = struct{}{}
	r.mu.Unlock()
}

func (r *ReadSet) Has(conversationID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[conversationID]
	return ok
}

// DisplayUnreadCount decides whether a conversation shows an unread badge.
// The result is binary: 1 when the latest message is an unseen incoming one,
// 0 otherwise. The backend's running unread_count total is deliberately not
// consulted; it cannot be reconciled with what the user has already viewed
// in this session.
func DisplayUnreadCount(conv domain.Conversation, selectedID string, read *ReadSet, currentUserID string) int {
	if conv.ID == selectedID {
		return 0
	}
	if read != nil && read.Has(conv.ID) {
		return 0
	}
	if conv.LastMessage == nil {
		return 0
	}
	if conv.LastMessage.SenderID != currentUserID && !conv.LastMessage.IsRead {
		return 1
	}
	return 0
}
