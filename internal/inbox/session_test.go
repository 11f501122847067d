package inbox

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/domain"
	"unistay-inbox/internal/hidelist"
	inbox_errors "unistay-inbox/pkg/errors"
)

// fakeStore implements Store in memory, recording the remote-ish calls the
// session issues.
type fakeStore struct {
	mu sync.Mutex

	userID        string
	conversations []domain.Conversation
	messages      map[string][]domain.Message
	loading       bool

	markedRead  []string
	sent        []string
	deleted     []string
	sendGate    chan struct{}
	sendEntered chan struct{}
}

func newFakeStore(userID string) *fakeStore {
	return &fakeStore{userID: userID, messages: make(map[string][]domain.Message)}
}

func (f *fakeStore) UserID() string { return f.userID }
func (f *fakeStore) Loading() bool  { return f.loading }

func (f *fakeStore) Conversations() []domain.Conversation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Conversation, len(f.conversations))
	copy(out, f.conversations)
	return out
}

func (f *fakeStore) Conversation(id string) (domain.Conversation, bool) {
	for _, c := range f.Conversations() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Conversation{}, false
}

func (f *fakeStore) RefreshConversations(ctx context.Context) error { return nil }

func (f *fakeStore) ConversationMessages(ctx context.Context, id string) []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Message(nil), f.messages[id]...)
}

func (f *fakeStore) SendMessage(ctx context.Context, receiverID, content string) (domain.Message, error) {
	if f.sendEntered != nil {
		f.sendEntered <- struct{}{}
	}
	if f.sendGate != nil {
		<-f.sendGate
	}
	if strings.TrimSpace(content) == "" {
		return domain.Message{}, inbox_errors.ErrEmptyContent
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, content)
	msg := domain.Message{ID: "sent-1", ConversationID: "c1", SenderID: f.userID, ReceiverID: receiverID, Content: content}
	f.messages["c1"] = append(f.messages["c1"], msg)
	return msg, nil
}

func (f *fakeStore) MarkAsRead(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedRead = append(f.markedRead, messageID)
	return nil
}

func (f *fakeStore) EditMessage(ctx context.Context, messageID, newContent string) error { return nil }

func (f *fakeStore) DeleteMessage(ctx context.Context, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeStore) DeleteConversation(ctx context.Context, conversationID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.conversations {
		if f.conversations[i].ID == conversationID {
			f.conversations = append(f.conversations[:i], f.conversations[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) UnreadIncoming(conversationID string) []domain.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	var unread []domain.Message
	for _, m := range f.messages[conversationID] {
		if m.ReceiverID == f.userID && !m.IsRead {
			unread = append(unread, m)
		}
	}
	return unread
}

func (f *fakeStore) markedReadIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.markedRead...)
}

func twoConversations(last1, last2 *domain.Message) []domain.Conversation {
	return []domain.Conversation{
		conv("c1", last1),
		{
			ID: "c2",
			Participants: []domain.UserSummary{
				{ID: me}, {ID: "user-3", FirstName: "Nora"},
			},
			LastMessage: last2,
		},
	}
}

func newTestSession(t *testing.T, st Store) *Session {
	t.Helper()
	kv := hidelist.NewMemoryKV()
	hidden := hidelist.New(kv, me)
	require.NoError(t, hidden.Load(context.Background()))
	return NewSession(auth.Session{UserID: me, Token: "tok"}, st, hidden, nil, nil)
}

func TestAutoSelectFirstAndBadges(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(
		&domain.Message{ID: "m1", SenderID: "user-2", ReceiverID: me, Content: "Hi", IsRead: false},
		&domain.Message{ID: "m2", SenderID: "user-3", ReceiverID: me, Content: "Yo", IsRead: false},
	)
	s := newTestSession(t, st)

	require.NoError(t, s.Refresh(context.Background()))

	selected, ok := s.SelectedConversation()
	require.True(t, ok)
	assert.Equal(t, "c1", selected)

	views := s.VisibleConversations()
	require.Len(t, views, 2)
	assert.Equal(t, 0, views[0].Unread, "selected conversation shows no badge")
	assert.Equal(t, 1, views[1].Unread, "unopened conversation keeps its badge")
	assert.Equal(t, "user-2", views[0].Counterpart.ID)
}

func TestManualCloseSuppressesAutoSelect(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)

	_, err := s.Open(context.Background(), "c1")
	require.NoError(t, err)
	s.Close()

	_, ran := s.AutoSelect(context.Background())
	assert.False(t, ran)
	_, ok := s.SelectedConversation()
	assert.False(t, ok)

	// A manual open releases the latch and auto-select works again later.
	_, err = s.Open(context.Background(), "c2")
	require.NoError(t, err)
	require.NoError(t, s.DeleteConversation(context.Background(), "c2"))
	id, ran := s.AutoSelect(context.Background())
	assert.True(t, ran)
	assert.Equal(t, "c1", id)
}

func TestOpenMarksIncomingReadBestEffort(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	st.messages["c1"] = []domain.Message{
		{ID: "m1", ConversationID: "c1", SenderID: "user-2", ReceiverID: me, IsRead: false},
		{ID: "m2", ConversationID: "c1", SenderID: me, ReceiverID: "user-2", IsRead: false},
		{ID: "m3", ConversationID: "c1", SenderID: "user-2", ReceiverID: me, IsRead: true},
	}
	s := newTestSession(t, st)

	messages, err := s.Open(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, messages, 3)

	// The local read state does not wait for the remote calls.
	views := s.VisibleConversations()
	assert.Equal(t, 0, views[0].Unread)

	// Only the unseen incoming message goes out for marking.
	require.Eventually(t, func() bool {
		return len(st.markedReadIDs()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"m1"}, st.markedReadIDs())
}

func TestHiddenConversationsAreNotRendered(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)

	kv := hidelist.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), hidelist.Key(me), `["c1","c2"]`))
	hidden := hidelist.New(kv, me)
	require.NoError(t, hidden.Load(context.Background()))
	s := NewSession(auth.Session{UserID: me, Token: "tok"}, st, hidden, nil, nil)

	assert.Empty(t, s.VisibleConversations())
	assert.Equal(t, 2, s.HiddenCount())

	// Nothing visible means nothing to auto-select.
	_, ran := s.AutoSelect(context.Background())
	assert.False(t, ran)
}

func TestRouteDeepLink(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)

	id, matched := s.Route(context.Background(), "user-3", "Hello there")
	require.True(t, matched)
	assert.Equal(t, "c2", id)
	selected, _ := s.SelectedConversation()
	assert.Equal(t, "c2", selected)
	assert.Equal(t, "Hello there", s.ComposeText())
}

func TestRouteMissIsSilentNoOp(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)
	s.SetComposeText("draft")

	_, matched := s.Route(context.Background(), "nobody", "ignored")
	assert.False(t, matched)
	_, ok := s.SelectedConversation()
	assert.False(t, ok)
	assert.Equal(t, "draft", s.ComposeText())
}

func TestOpenClearsComposeOnlyWhenSwitching(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)

	_, err := s.Open(context.Background(), "c1")
	require.NoError(t, err)
	s.SetComposeText("half-typed reply")

	_, err = s.Open(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "half-typed reply", s.ComposeText())

	_, err = s.Open(context.Background(), "c2")
	require.NoError(t, err)
	assert.Empty(t, s.ComposeText())
}

func TestSendRejectsEmptyWithoutRemoteCall(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)

	_, _, err := s.Send(context.Background(), "user-2", "   \n\t")
	require.ErrorIs(t, err, inbox_errors.ErrEmptyContent)
	assert.Empty(t, st.sent)
}

func TestSendSingleFlight(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	st.sendGate = make(chan struct{})
	st.sendEntered = make(chan struct{}, 1)
	s := newTestSession(t, st)

	errs := make(chan error, 1)
	go func() {
		_, _, err := s.Send(context.Background(), "user-2", "first")
		errs <- err
	}()

	// Wait until the first send is blocked inside the store.
	<-st.sendEntered

	_, _, err := s.Send(context.Background(), "user-2", "second")
	require.ErrorIs(t, err, inbox_errors.ErrSendInFlight)

	close(st.sendGate)
	require.NoError(t, <-errs)
	assert.Equal(t, []string{"first"}, st.sent)
}

func TestSendSuccessClearsComposeAndReloads(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)

	_, err := s.Open(context.Background(), "c1")
	require.NoError(t, err)
	s.SetComposeText("Is the room still available?")

	created, conversation, err := s.Send(context.Background(), "user-2", "Is the room still available?")
	require.NoError(t, err)
	assert.Equal(t, "c1", created.ConversationID)
	assert.Empty(t, s.ComposeText())
	require.Len(t, conversation, 1)
	assert.Equal(t, "Is the room still available?", conversation[0].Content)
}

func TestDeleteConversationClearsSelection(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)
	s := newTestSession(t, st)

	_, err := s.Open(context.Background(), "c1")
	require.NoError(t, err)
	require.NoError(t, s.DeleteConversation(context.Background(), "c1"))

	_, ok := s.SelectedConversation()
	assert.False(t, ok)
}

func TestHideConversation(t *testing.T) {
	st := newFakeStore(me)
	st.conversations = twoConversations(nil, nil)

	kv := hidelist.NewMemoryKV()
	hidden := hidelist.New(kv, me)
	require.NoError(t, hidden.Load(context.Background()))
	s := NewSession(auth.Session{UserID: me, Token: "tok"}, st, hidden, nil, nil)

	_, err := s.Open(context.Background(), "c1")
	require.NoError(t, err)
	require.NoError(t, s.HideConversation(context.Background(), "c1"))

	_, ok := s.SelectedConversation()
	assert.False(t, ok, "hiding the active conversation clears the selection")
	views := s.VisibleConversations()
	require.Len(t, views, 1)
	assert.Equal(t, "c2", views[0].Conversation.ID)

	// A later session of the same user sees the persisted set.
	rehydrated := hidelist.New(kv, me)
	require.NoError(t, rehydrated.Load(context.Background()))
	assert.True(t, rehydrated.Hidden("c1"))

	// The unhide seam works, even though no UI flow reaches it.
	require.NoError(t, s.RestoreConversation(context.Background(), "c1"))
	assert.Len(t, s.VisibleConversations(), 2)
}
