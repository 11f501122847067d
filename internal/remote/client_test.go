package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unistay-inbox/internal/domain"
	inbox_errors "unistay-inbox/pkg/errors"
)

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListConversationsDecodesEnvelope(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/conversations", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{
					"id": "c1",
					"participants": []map[string]any{
						{"id": "u1", "first_name": "Sam"},
						{"id": "u2", "first_name": "Alex"},
					},
					"unread_count": 3,
				},
			},
		})
	}))
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	conversations, err := client.ListConversations(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, "c1", conversations[0].ID)
	assert.Equal(t, 3, conversations[0].UnreadCount)

	counterpart, ok := conversations[0].Counterpart("u1")
	require.True(t, ok)
	assert.Equal(t, "u2", counterpart.ID)
}

func TestCreateMessagePostsBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/messages", r.URL.Path)

		var req createMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "u2", req.ReceiverID)
		assert.Equal(t, "hello", req.Content)

		respond(w, http.StatusOK, map[string]any{
			"success": true,
			"data": domain.Message{
				ID: "m1", ConversationID: "c1", SenderID: "u1", ReceiverID: "u2", Content: "hello",
			},
		})
	}))
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	created, err := client.CreateMessage(context.Background(), "tok", "u2", "hello")
	require.NoError(t, err)
	assert.Equal(t, "m1", created.ID)
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, inbox_errors.ErrInvalidInput},
		{http.StatusUnauthorized, inbox_errors.ErrUnauthorized},
		{http.StatusForbidden, inbox_errors.ErrForbidden},
		{http.StatusNotFound, inbox_errors.ErrNotFound},
		{http.StatusInternalServerError, inbox_errors.ErrRemoteUnavailable},
		{http.StatusTeapot, inbox_errors.ErrRemoteRejected},
	}
	for _, tt := range tests {
		backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respond(w, tt.status, map[string]any{"success": false, "error": "nope", "code": "NOPE"})
		}))
		client := NewClient(backend.URL, time.Second, nil)
		err := client.MarkMessageRead(context.Background(), "tok", "m1")
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
		backend.Close()
	}
}

func TestUnsuccessfulEnvelopeWithOKStatus(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, map[string]any{"success": false, "error": "backend said no"})
	}))
	defer backend.Close()

	client := NewClient(backend.URL, time.Second, nil)
	err := client.DeleteMessage(context.Background(), "tok", "m1")
	assert.ErrorIs(t, err, inbox_errors.ErrRemoteRejected)
	assert.Contains(t, err.Error(), "backend said no")
}

func TestUnreachableBackend(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, nil)
	_, err := client.ListMessages(context.Background(), "tok", "c1")
	assert.ErrorIs(t, err, inbox_errors.ErrRemoteUnavailable)
}
