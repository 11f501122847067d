// Package store is the single source of truth for the conversations and
// messages of one authenticated user. Every mutation is two-phase: the
// remote call happens first and local state changes only after it succeeds,
// so a failure always leaves the last-known-good view intact.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"unistay-inbox/internal/domain"
	"unistay-inbox/internal/notify"
	inbox_errors "unistay-inbox/pkg/errors"
	"unistay-inbox/pkg/logger"
)

// RemoteAPI is the slice of the marketplace backend the store depends on.
type RemoteAPI interface {
	ListConversations(ctx context.Context, token string) ([]domain.Conversation, error)
	ListMessages(ctx context.Context, token, conversationID string) ([]domain.Message, error)
	CreateMessage(ctx context.Context, token, receiverID, content string) (domain.Message, error)
	MarkMessageRead(ctx context.Context, token, messageID string) error
	UpdateMessage(ctx context.Context, token, messageID, content string) error
	DeleteMessage(ctx context.Context, token, messageID string) error
	DeleteConversation(ctx context.Context, token, conversationID string) error
}

type Store struct {
	mu sync.RWMutex

	api    RemoteAPI
	userID string
	token  string

	conversations []domain.Conversation
	messages      map[string][]domain.Message
	loading       bool

	notifier notify.Notifier
	logger   *logger.Logger
}

func New(api RemoteAPI, userID, token string, notifier notify.Notifier, l *logger.Logger) *Store {
	return &Store{
		api:      api,
		userID:   userID,
		token:    token,
		messages: make(map[string][]domain.Message),
		notifier: notifier,
		logger:   l,
	}
}

func (s *Store) UserID() string { return s.userID }

// SetToken swaps the bearer token forwarded to the backend. Sessions outlive
// a single login, tokens do not.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Store) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Loading reports whether a conversation refresh is in flight. Auto-select
// must not run while the list is still loading.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Conversations returns a snapshot of the conversation list.
func (s *Store) Conversations() []domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Conversation returns one conversation by id.
func (s *Store) Conversation(conversationID string) (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.conversations {
		if c.ID == conversationID {
			return c, true
		}
	}
	return domain.Conversation{}, false
}

// RefreshConversations reloads the conversation list from the backend. On
// failure the previous list is kept.
func (s *Store) RefreshConversations(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	conversations, err := s.api.ListConversations(ctx, s.currentToken())

	s.mu.Lock()
	s.loading = false
	if err == nil {
		s.conversations = conversations
	}
	s.mu.Unlock()

	if err != nil {
		s.fail(ctx, "Could not load your conversations", err)
		return err
	}
	return nil
}

// ConversationMessages reloads and returns the messages of one conversation,
// oldest first. It never fails the caller: on a remote error it surfaces a
// notification and returns an empty list.
func (s *Store) ConversationMessages(ctx context.Context, conversationID string) []domain.Message {
	messages, err := s.api.ListMessages(ctx, s.currentToken(), conversationID)
	if err != nil {
		s.fail(ctx, "Could not load messages", err)
		return []domain.Message{}
	}
	domain.SortMessages(messages)

	s.mu.Lock()
	s.messages[conversationID] = messages
	s.mu.Unlock()

	out := make([]domain.Message, len(messages))
	copy(out, messages)
	return out
}

// ConversationMessagesLocal returns the locally cached messages of a
// conversation without touching the backend.
func (s *Store) ConversationMessagesLocal(conversationID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Message(nil), s.messages[conversationID]...)
}

// SendMessage creates a message addressed to receiverID. On success the
// message is appended locally and the owning conversation's denormalized
// last message is updated.
func (s *Store) SendMessage(ctx context.Context, receiverID, content string) (domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		s.warn(ctx, "Cannot send an empty message")
		return domain.Message{}, inbox_errors.ErrEmptyContent
	}
	if receiverID == "" {
		s.warn(ctx, "No recipient for this message")
		return domain.Message{}, inbox_errors.ErrNoCounterpart
	}

	created, err := s.api.CreateMessage(ctx, s.currentToken(), receiverID, content)
	if err != nil {
		s.fail(ctx, "Could not send your message", err)
		return domain.Message{}, err
	}

	s.mu.Lock()
	s.messages[created.ConversationID] = append(s.messages[created.ConversationID], created)
	known := false
	for i := range s.conversations {
		if s.conversations[i].ID == created.ConversationID {
			last := created
			s.conversations[i].LastMessage = &last
			s.conversations[i].UpdatedAt = created.CreatedAt
			known = true
			break
		}
	}
	s.mu.Unlock()

	if !known {
		// The backend filed the message under a conversation we have not
		// seen yet; pick it up with a best-effort refresh.
		_ = s.RefreshConversations(ctx)
	}
	return created, nil
}

// MarkAsRead flips one message to read. Marking an already-read message is a
// no-op and issues no remote call.
func (s *Store) MarkAsRead(ctx context.Context, messageID string) error {
	if msg, ok := s.findMessage(messageID); ok && msg.IsRead {
		return nil
	}

	if err := s.api.MarkMessageRead(ctx, s.currentToken(), messageID); err != nil {
		// Best-effort: the local read-set already suppresses the badge, so
		// this failure is logged but not surfaced as a toast.
		if s.logger != nil {
			s.logger.For(ctx).Warn("mark-as-read failed: " + err.Error())
		}
		return err
	}

	s.mu.Lock()
	s.mutateMessage(messageID, func(m *domain.Message) { m.IsRead = true })
	s.mu.Unlock()
	return nil
}

// EditMessage replaces the content of a message the user sent. Editing to
// identical content is a no-op; empty content is rejected. Neither issues a
// remote call.
func (s *Store) EditMessage(ctx context.Context, messageID, newContent string) error {
	if strings.TrimSpace(newContent) == "" {
		s.warn(ctx, "Cannot edit a message to be empty")
		return inbox_errors.ErrEmptyContent
	}

	current, ok := s.findMessage(messageID)
	if !ok {
		return inbox_errors.ErrNotFound
	}
	if current.SenderID != s.userID {
		s.warn(ctx, "You can only edit your own messages")
		return inbox_errors.ErrNotSender
	}
	if current.Content == newContent {
		return nil
	}

	if err := s.api.UpdateMessage(ctx, s.currentToken(), messageID, newContent); err != nil {
		s.fail(ctx, "Could not edit your message", err)
		return err
	}

	s.mu.Lock()
	s.mutateMessage(messageID, func(m *domain.Message) { m.Content = newContent })
	s.mu.Unlock()
	return nil
}

// DeleteMessage removes a message the user sent.
func (s *Store) DeleteMessage(ctx context.Context, messageID string) error {
	current, ok := s.findMessage(messageID)
	if !ok {
		return inbox_errors.ErrNotFound
	}
	if current.SenderID != s.userID {
		s.warn(ctx, "You can only delete your own messages")
		return inbox_errors.ErrNotSender
	}

	if err := s.api.DeleteMessage(ctx, s.currentToken(), messageID); err != nil {
		s.fail(ctx, "Could not delete the message", err)
		return err
	}

	s.mu.Lock()
	list := s.messages[current.ConversationID]
	for i := range list {
		if list[i].ID == messageID {
			s.messages[current.ConversationID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// DeleteConversation removes a conversation remotely, then locally.
func (s *Store) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := s.api.DeleteConversation(ctx, s.currentToken(), conversationID); err != nil {
		s.fail(ctx, "Could not delete the conversation", err)
		return err
	}

	s.mu.Lock()
	for i := range s.conversations {
		if s.conversations[i].ID == conversationID {
			s.conversations = append(s.conversations[:i], s.conversations[i+1:]...)
			break
		}
	}
	delete(s.messages, conversationID)
	s.mu.Unlock()
	return nil
}

// UnreadIncoming returns the currently loaded messages of a conversation
// that were sent to the user and not yet read.
func (s *Store) UnreadIncoming(conversationID string) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var unread []domain.Message
	for _, m := range s.messages[conversationID] {
		if m.ReceiverID == s.userID && !m.IsRead {
			unread = append(unread, m)
		}
	}
	return unread
}

// findMessage looks a message up in the loaded lists, falling back to the
// denormalized last-message copies.
func (s *Store) findMessage(messageID string) (domain.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, list := range s.messages {
		for _, m := range list {
			if m.ID == messageID {
				return m, true
			}
		}
	}
	for _, c := range s.conversations {
		if c.LastMessage != nil && c.LastMessage.ID == messageID {
			return *c.LastMessage, true
		}
	}
	return domain.Message{}, false
}

// mutateMessage applies fn to every local copy of the message, including the
// denormalized one on its conversation. Callers hold s.mu.
func (s *Store) mutateMessage(messageID string, fn func(*domain.Message)) {
	for convID, list := range s.messages {
		for i := range list {
			if list[i].ID == messageID {
				fn(&list[i])
				s.messages[convID] = list
			}
		}
	}
	for i := range s.conversations {
		if s.conversations[i].LastMessage != nil && s.conversations[i].LastMessage.ID == messageID {
			fn(s.conversations[i].LastMessage)
		}
	}
}

func (s *Store) fail(ctx context.Context, text string, err error) {
	if s.logger != nil {
		s.logger.For(ctx).Warn(fmt.Sprintf("%s: %v", text, err))
	}
	if s.notifier != nil {
		s.notifier.Notify(ctx, notify.NewNotice(s.userID, notify.LevelError, text))
	}
}

func (s *Store) warn(ctx context.Context, text string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, notify.NewNotice(s.userID, notify.LevelError, text))
	}
}

// IsValidation reports whether an error came from input validation rather
// than the remote service.
func IsValidation(err error) bool {
	return errors.Is(err, inbox_errors.ErrEmptyContent) ||
		errors.Is(err, inbox_errors.ErrNoCounterpart) ||
		errors.Is(err, inbox_errors.ErrNotSender)
}
