// Package inbox holds the per-user view-model: which conversations are
// visible, which one is open, what the unread badges show, and the compose
// box state. It composes the data store, the reconciler, the selection state
// machine and the hide-list.
package inbox

import (
	"context"
	"sync"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/domain"
	"unistay-inbox/internal/hidelist"
	"unistay-inbox/internal/notify"
	inbox_errors "unistay-inbox/pkg/errors"
	"unistay-inbox/pkg/logger"
)

// ConversationView is one row of the rendered conversation list.
type ConversationView struct {
	Conversation domain.Conversation `json:"conversation"`
	Counterpart  domain.UserSummary  `json:"counterpart"`
	Unread       int                 `json:"unread"`
}

// Session is the live view-model of one user.
type Session struct {
	mu sync.Mutex

	user   auth.Session
	store  Store
	hidden *hidelist.HideList
	read   *ReadSet
	sel    Selection

	composeText string
	sending     bool

	notifier notify.Notifier
	logger   *logger.Logger
}

// Store is the narrow dependency Session has on the data store. Satisfied by
// *store.Store; fakes implement it in tests.
type Store interface {
	UserID() string
	Loading() bool
	Conversations() []domain.Conversation
	Conversation(conversationID string) (domain.Conversation, bool)
	RefreshConversations(ctx context.Context) error
	ConversationMessages(ctx context.Context, conversationID string) []domain.Message
	SendMessage(ctx context.Context, receiverID, content string) (domain.Message, error)
	MarkAsRead(ctx context.Context, messageID string) error
	EditMessage(ctx context.Context, messageID, newContent string) error
	DeleteMessage(ctx context.Context, messageID string) error
	DeleteConversation(ctx context.Context, conversationID string) error
	UnreadIncoming(conversationID string) []domain.Message
}

func NewSession(user auth.Session, st Store, hidden *hidelist.HideList, notifier notify.Notifier, l *logger.Logger) *Session {
	return &Session{
		user:     user,
		store:    st,
		hidden:   hidden,
		read:     NewReadSet(),
		notifier: notifier,
		logger:   l,
	}
}

func (s *Session) User() auth.Session { return s.user }

// SetUser refreshes the identity after a re-login. The view state survives;
// only the token changes in practice.
func (s *Session) SetUser(user auth.Session) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

// VisibleConversations renders the conversation list: hidden conversations
// filtered out, unread badges reconciled against selection and read-set.
func (s *Session) VisibleConversations() []ConversationView {
	s.mu.Lock()
	selectedID := s.sel.selectedID
	s.mu.Unlock()

	views := make([]ConversationView, 0)
	for _, conv := range s.store.Conversations() {
		if s.hidden != nil && s.hidden.Hidden(conv.ID) {
			continue
		}
		counterpart, _ := conv.Counterpart(s.user.UserID)
		views = append(views, ConversationView{
			Conversation: conv,
			Counterpart:  counterpart,
			Unread:       DisplayUnreadCount(conv, selectedID, s.read, s.user.UserID),
		})
	}
	return views
}

// HiddenCount reports how many of the store's conversations the hide-list
// filters out of the rendered view.
func (s *Session) HiddenCount() int {
	if s.hidden == nil {
		return 0
	}
	count := 0
	for _, conv := range s.store.Conversations() {
		if s.hidden.Hidden(conv.ID) {
			count++
		}
	}
	return count
}

// SelectedConversation returns the id of the open conversation, if any.
func (s *Session) SelectedConversation() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel.Current()
}

// Refresh reloads the conversation list and re-evaluates auto-selection.
func (s *Session) Refresh(ctx context.Context) error {
	if err := s.store.RefreshConversations(ctx); err != nil {
		return err
	}
	s.AutoSelect(ctx)
	return nil
}

// Open selects a conversation and returns its messages oldest first. The
// conversation is immediately treated as read: the read-set entry is added
// synchronously and one best-effort mark-as-read call goes out per unseen
// incoming message, without waiting for any of them.
func (s *Session) Open(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if _, ok := s.store.Conversation(conversationID); !ok {
		return nil, inbox_errors.ErrNotFound
	}

	s.mu.Lock()
	if current, _ := s.sel.Current(); current != conversationID {
		s.composeText = ""
	}
	s.sel.Select(conversationID)
	s.mu.Unlock()

	s.read.Add(conversationID)

	messages := s.store.ConversationMessages(ctx, conversationID)

	background := context.WithoutCancel(ctx)
	for _, m := range s.store.UnreadIncoming(conversationID) {
		go func(messageID string) {
			_ = s.store.MarkAsRead(background, messageID)
		}(m.ID)
	}
	return messages, nil
}

// Close is the explicit close action. Auto-select stays suppressed until the
// user opens a conversation again.
func (s *Session) Close() {
	s.mu.Lock()
	s.sel.Close()
	s.mu.Unlock()
}

// AutoSelect opens the first visible conversation when nothing is selected,
// the list is loaded and non-empty, and the user has not just closed the
// pane. Returns the opened conversation id when it ran.
func (s *Session) AutoSelect(ctx context.Context) (string, bool) {
	first := ""
	for _, view := range s.VisibleConversations() {
		first = view.Conversation.ID
		break
	}

	s.mu.Lock()
	ok := s.sel.ShouldAutoSelect(first != "", s.store.Loading())
	s.mu.Unlock()
	if !ok {
		return "", false
	}
	if _, err := s.Open(ctx, first); err != nil {
		return "", false
	}
	return first, true
}

// Route resolves a deep link: find the conversation whose counterpart is the
// given user, open it and seed the compose box with the prefill text. A miss
// is a silent no-op, not an error.
func (s *Session) Route(ctx context.Context, counterpartID, prefill string) (string, bool) {
	if counterpartID == "" {
		return "", false
	}
	for _, conv := range s.store.Conversations() {
		counterpart, ok := conv.Counterpart(s.user.UserID)
		if !ok || counterpart.ID != counterpartID {
			continue
		}
		if _, err := s.Open(ctx, conv.ID); err != nil {
			return "", false
		}
		s.mu.Lock()
		s.composeText = prefill
		s.mu.Unlock()
		return conv.ID, true
	}
	return "", false
}

// Send creates a message for the counterpart. One send at a time per
// session; a successful send clears the compose box and reloads the active
// conversation.
func (s *Session) Send(ctx context.Context, receiverID, content string) (domain.Message, []domain.Message, error) {
	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return domain.Message{}, nil, inbox_errors.ErrSendInFlight
	}
	s.sending = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()

	created, err := s.store.SendMessage(ctx, receiverID, content)
	if err != nil {
		return domain.Message{}, nil, err
	}

	s.mu.Lock()
	s.composeText = ""
	selectedID, selected := s.sel.Current()
	s.mu.Unlock()

	var messages []domain.Message
	if selected && selectedID == created.ConversationID {
		messages = s.store.ConversationMessages(ctx, selectedID)
	}
	return created, messages, nil
}

// EditMessage forwards to the store, which enforces ownership and the
// no-op/empty rules.
func (s *Session) EditMessage(ctx context.Context, messageID, newContent string) error {
	return s.store.EditMessage(ctx, messageID, newContent)
}

// DeleteMessage forwards to the store, which enforces ownership.
func (s *Session) DeleteMessage(ctx context.Context, messageID string) error {
	return s.store.DeleteMessage(ctx, messageID)
}

// DeleteConversation removes the conversation remotely and drops the
// selection if it was the active one.
func (s *Session) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := s.store.DeleteConversation(ctx, conversationID); err != nil {
		return err
	}
	s.mu.Lock()
	if current, _ := s.sel.Current(); current == conversationID {
		s.sel.Clear()
	}
	s.mu.Unlock()
	return nil
}

// HideConversation hides a conversation from this user's list only. The
// backend record and the other participant are untouched.
func (s *Session) HideConversation(ctx context.Context, conversationID string) error {
	if s.hidden == nil {
		return nil
	}
	if err := s.hidden.Hide(ctx, conversationID); err != nil {
		if s.notifier != nil {
			s.notifier.Notify(ctx, notify.NewNotice(s.user.UserID, notify.LevelError, "Could not hide the conversation"))
		}
		return err
	}
	s.mu.Lock()
	if current, _ := s.sel.Current(); current == conversationID {
		s.sel.Clear()
	}
	s.mu.Unlock()
	return nil
}

// RestoreConversation is the unhide seam. No route reaches it yet.
func (s *Session) RestoreConversation(ctx context.Context, conversationID string) error {
	if s.hidden == nil {
		return nil
	}
	return s.hidden.Restore(ctx, conversationID)
}

// ComposeText returns the current compose box content.
func (s *Session) ComposeText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.composeText
}

// SetComposeText mirrors the compose box as the user types, so a deep-link
// prefill and manual edits share one state.
func (s *Session) SetComposeText(text string) {
	s.mu.Lock()
	s.composeText = text
	s.mu.Unlock()
}
