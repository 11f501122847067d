package inbox

import (
	"context"
	"sync"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/hidelist"
	"unistay-inbox/internal/notify"
	"unistay-inbox/internal/remote"
	datastore "unistay-inbox/internal/store"
	"unistay-inbox/pkg/logger"
)

// Manager hands out one Session per user, created lazily on the first
// authenticated request and kept for the life of the process.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	api      *remote.Client
	kv       hidelist.KV
	notifier notify.Notifier
	logger   *logger.Logger
}

func NewManager(api *remote.Client, kv hidelist.KV, notifier notify.Notifier, l *logger.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		api:      api,
		kv:       kv,
		notifier: notifier,
		logger:   l,
	}
}

// Session returns the user's session, creating it on first sight. Creation
// loads the persisted hide-list so hidden conversations stay hidden across
// sessions. On later calls the stored identity is refreshed, because tokens
// rotate between logins.
func (m *Manager) Session(ctx context.Context, user auth.Session) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[user.UserID]; ok {
		existing.SetUser(user)
		if ds, ok := existing.store.(*datastore.Store); ok {
			ds.SetToken(user.Token)
		}
		return existing
	}

	hidden := hidelist.New(m.kv, user.UserID)
	if err := hidden.Load(ctx); err != nil && m.logger != nil {
		m.logger.For(ctx).Warn("could not load hidden conversations: " + err.Error())
	}

	st := datastore.New(m.api, user.UserID, user.Token, m.notifier, m.logger)
	session := NewSession(user, st, hidden, m.notifier, m.logger)
	m.sessions[user.UserID] = session
	return session
}
