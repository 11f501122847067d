package remote

import (
	"context"
	"net/http"
	"net/url"

	"unistay-inbox/internal/domain"
)

// ListConversations fetches every conversation of the authenticated user.
func (c *Client) ListConversations(ctx context.Context, token string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	if err := c.do(ctx, token, http.MethodGet, "/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// ListMessages fetches the messages of one conversation. Order is whatever
// the backend returns; callers re-sort.
func (c *Client) ListMessages(ctx context.Context, token, conversationID string) ([]domain.Message, error) {
	var messages []domain.Message
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, token, http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

type createMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// CreateMessage creates a message addressed to receiverID and returns the
// stored message, including the conversation the backend filed it under.
func (c *Client) CreateMessage(ctx context.Context, token, receiverID, content string) (domain.Message, error) {
	var created domain.Message
	req := createMessageRequest{ReceiverID: receiverID, Content: content}
	if err := c.do(ctx, token, http.MethodPost, "/messages", req, &created); err != nil {
		return domain.Message{}, err
	}
	return created, nil
}

// MarkMessageRead flips a message's read flag. The backend treats repeated
// calls as no-ops.
func (c *Client) MarkMessageRead(ctx context.Context, token, messageID string) error {
	path := "/messages/" + url.PathEscape(messageID) + "/read"
	return c.do(ctx, token, http.MethodPut, path, nil, nil)
}

type updateMessageRequest struct {
	Content string `json:"content"`
}

// UpdateMessage replaces a message's content.
func (c *Client) UpdateMessage(ctx context.Context, token, messageID, content string) error {
	path := "/messages/" + url.PathEscape(messageID)
	return c.do(ctx, token, http.MethodPut, path, updateMessageRequest{Content: content}, nil)
}

// DeleteMessage removes a message.
func (c *Client) DeleteMessage(ctx context.Context, token, messageID string) error {
	return c.do(ctx, token, http.MethodDelete, "/messages/"+url.PathEscape(messageID), nil, nil)
}

// DeleteConversation removes a conversation and its messages.
func (c *Client) DeleteConversation(ctx context.Context, token, conversationID string) error {
	return c.do(ctx, token, http.MethodDelete, "/conversations/"+url.PathEscape(conversationID), nil, nil)
}
