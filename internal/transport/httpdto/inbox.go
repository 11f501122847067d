package httpdto

import (
	"unistay-inbox/internal/domain"
	"unistay-inbox/internal/inbox"
)

type InboxResponse struct {
	Conversations []inbox.ConversationView `json:"conversations"`
	SelectedID    string                   `json:"selected_id,omitempty"`
	ComposeText   string                   `json:"compose_text,omitempty"`
	HiddenCount   int                      `json:"hidden_count"`
}

type OpenConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

type ConversationMessagesResponse struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []domain.Message `json:"messages"`
}

type HideConversationRequest struct {
	ConversationID string `json:"conversation_id"`
}

type RouteResponse struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Matched        bool   `json:"matched"`
	ComposeText    string `json:"compose_text,omitempty"`
}

type ComposeResponse struct {
	Text string `json:"text"`
}

type UpdateComposeRequest struct {
	Text string `json:"text"`
}
