package httpdto

import "unistay-inbox/internal/domain"

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

type SendMessageResponse struct {
	Message      domain.Message   `json:"message"`
	Conversation []domain.Message `json:"conversation,omitempty"`
}

type EditMessageRequest struct {
	Content string `json:"content"`
}
