package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/inbox"
	"unistay-inbox/internal/transport/httpdto"
)

type MessageHandler struct {
	sessions *inbox.Manager
}

func NewMessageHandler(sessions *inbox.Manager) *MessageHandler {
	return &MessageHandler{sessions: sessions}
}

func (h *MessageHandler) session(c *gin.Context) (*inbox.Session, bool) {
	user, ok := auth.SessionFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return nil, false
	}
	return h.sessions.Session(c.Request.Context(), user), true
}

// Send creates a message. Empty content and concurrent sends are rejected
// before any remote call happens.
func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	created, conversation, err := session.Send(c.Request.Context(), req.ReceiverID, req.Content)
	if err != nil {
		status, code := statusFor(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SendMessageResponse{
		Message:      created,
		Conversation: conversation,
	}))
}

// Edit replaces the content of a message the user sent.
func (h *MessageHandler) Edit(c *gin.Context) {
	messageID := c.Param("id")
	var req httpdto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.EditMessage(c.Request.Context(), messageID, req.Content); err != nil {
		status, code := statusFor(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Delete removes a message the user sent.
func (h *MessageHandler) Delete(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		status, code := statusFor(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// DeleteConversation removes a whole conversation remotely.
func (h *MessageHandler) DeleteConversation(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.DeleteConversation(c.Request.Context(), c.Param("id")); err != nil {
		status, code := statusFor(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}
