// Package notify carries the transient, non-blocking notifications the UI
// renders as toasts. Failures of any action surface here and nowhere else;
// nothing in the gateway blocks on a notification being delivered.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"unistay-inbox/pkg/logger"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a single transient notification.
type Notice struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Level     Level     `json:"level"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotice(userID string, level Level, text string) Notice {
	return Notice{
		ID:        uuid.New().String(),
		UserID:    userID,
		Level:     level,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// Notifier delivers a notice best-effort. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// LogNotifier writes notices to the application log. It backs the hub in
// every environment so notices are observable even with no UI connected.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(l *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: l}
}

func (n *LogNotifier) Notify(ctx context.Context, notice Notice) {
	if n.logger == nil {
		return
	}
	switch notice.Level {
	case LevelError:
		n.logger.Errorf("notice user=%s: %s", notice.UserID, notice.Text)
	default:
		n.logger.Infof("notice user=%s: %s", notice.UserID, notice.Text)
	}
}

// Fanout delivers each notice to every wrapped notifier.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, notice Notice) {
	for _, n := range f {
		if n != nil {
			n.Notify(ctx, notice)
		}
	}
}
