// Package hidelist persists the per-user set of conversations hidden from
// the visible list ("delete for me"). The set is purely local preference
// data: it never reaches the marketplace backend and has no effect on the
// other participant.
package hidelist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// KV is the minimal key-value store the hide-list needs. Implementations
// return ("", nil) for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

const keyPattern = "hidden_conversations_%s"

// Key returns the storage key for a user's hidden set.
func Key(userID string) string {
	return fmt.Sprintf(keyPattern, userID)
}

// HideList is the loaded hidden set of one user. Safe for concurrent use.
type HideList struct {
	mu     sync.RWMutex
	kv     KV
	userID string
	ids    map[string]struct{}
}

func New(kv KV, userID string) *HideList {
	return &HideList{
		kv:     kv,
		userID: userID,
		ids:    make(map[string]struct{}),
	}
}

// Load reads the persisted set. Called once when a user session starts.
func (h *HideList) Load(ctx context.Context) error {
	raw, err := h.kv.Get(ctx, Key(h.userID))
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return err
	}

	h.mu.Lock()
	h.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		h.ids[id] = struct{}{}
	}
	h.mu.Unlock()
	return nil
}

// Hide adds a conversation to the set. The full set is persisted first and
// the in-memory set updated only on success.
func (h *HideList) Hide(ctx context.Context, conversationID string) error {
	h.mu.RLock()
	next := make([]string, 0, len(h.ids)+1)
	for id := range h.ids {
		next = append(next, id)
	}
	h.mu.RUnlock()
	next = append(next, conversationID)

	if err := h.persist(ctx, next); err != nil {
		return err
	}

	h.mu.Lock()
	h.ids[conversationID] = struct{}{}
	h.mu.Unlock()
	return nil
}

// Restore removes a conversation from the set. No UI flow reaches this yet;
// it is the seam for a future settings/restore affordance.
func (h *HideList) Restore(ctx context.Context, conversationID string) error {
	h.mu.RLock()
	next := make([]string, 0, len(h.ids))
	for id := range h.ids {
		if id != conversationID {
			next = append(next, id)
		}
	}
	h.mu.RUnlock()

	if err := h.persist(ctx, next); err != nil {
		return err
	}

	h.mu.Lock()
	delete(h.ids, conversationID)
	h.mu.Unlock()
	return nil
}

// Hidden reports whether a conversation is hidden for this user.
func (h *HideList) Hidden(conversationID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.ids[conversationID]
	return ok
}

// IDs returns the hidden ids, sorted for stable output.
func (h *HideList) IDs() []string {
	h.mu.RLock()
	out := make([]string, 0, len(h.ids))
	for id := range h.ids {
		out = append(out, id)
	}
	h.mu.RUnlock()
	sort.Strings(out)
	return out
}

func (h *HideList) persist(ctx context.Context, ids []string) error {
	sort.Strings(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return h.kv.Set(ctx, Key(h.userID), string(data))
}
