package inbox

// Selection is the at-most-one active conversation, plus the latch that
// keeps auto-select from reopening a conversation the user explicitly
// closed. Not safe for concurrent use on its own; Session serializes access.
type Selection struct {
	selectedID     string
	manuallyClosed bool
}

// Current returns the selected conversation id, if any.
func (s *Selection) Current() (string, bool) {
	return s.selectedID, s.selectedID != ""
}

// Select activates a conversation. Any open selection is replaced and the
// manual-close latch is released.
func (s *Selection) Select(conversationID string) {
	s.selectedID = conversationID
	s.manuallyClosed = false
}

// Close is the user explicitly closing the pane. The latch stays set until
// the user opens a conversation again.
func (s *Selection) Close() {
	s.selectedID = ""
	s.manuallyClosed = true
}

// Clear drops the selection without setting the latch, for programmatic
// removals (hiding or deleting the active conversation).
func (s *Selection) Clear() {
	s.selectedID = ""
}

// ShouldAutoSelect reports whether the first conversation may be opened
// automatically. All conditions must hold at once.
func (s *Selection) ShouldAutoSelect(haveConversations, loading bool) bool {
	return s.selectedID == "" && !s.manuallyClosed && haveConversations && !loading
}

// ManuallyClosed reports the latch state.
func (s *Selection) ManuallyClosed() bool {
	return s.manuallyClosed
}
