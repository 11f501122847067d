package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/inbox"
	"unistay-inbox/internal/transport/httpdto"
)

type InboxHandler struct {
	sessions *inbox.Manager
}

func NewInboxHandler(sessions *inbox.Manager) *InboxHandler {
	return &InboxHandler{sessions: sessions}
}

func (h *InboxHandler) session(c *gin.Context) (*inbox.Session, bool) {
	user, ok := auth.SessionFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return nil, false
	}
	return h.sessions.Session(c.Request.Context(), user), true
}

// List renders the inbox: refresh the conversation list, run auto-select,
// return the visible rows with reconciled unread badges. A refresh failure
// still returns the last-known-good list; the failure reaches the user as a
// notice.
func (h *InboxHandler) List(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	_ = session.Refresh(c.Request.Context())

	selectedID, _ := session.SelectedConversation()
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.InboxResponse{
		Conversations: session.VisibleConversations(),
		SelectedID:    selectedID,
		ComposeText:   session.ComposeText(),
		HiddenCount:   session.HiddenCount(),
	}))
}

// Open selects a conversation and returns its messages.
func (h *InboxHandler) Open(c *gin.Context) {
	var req httpdto.OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ConversationID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	messages, err := session.Open(c.Request.Context(), req.ConversationID)
	if err != nil {
		status, code := statusFor(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConversationMessagesResponse{
		ConversationID: req.ConversationID,
		Messages:       messages,
	}))
}

// Close is the explicit close action; auto-select stays off until the user
// opens a conversation again.
func (h *InboxHandler) Close(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Close()
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Route resolves a deep link (?to=<counterpart>&prefill=<text>). A miss is a
// 200 with matched=false, not an error.
func (h *InboxHandler) Route(c *gin.Context) {
	to := c.Query("to")
	if to == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("missing to parameter", "INVALID_REQUEST"))
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	_ = session.Refresh(c.Request.Context())

	conversationID, matched := session.Route(c.Request.Context(), to, c.Query("prefill"))
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.RouteResponse{
		ConversationID: conversationID,
		Matched:        matched,
		ComposeText:    session.ComposeText(),
	}))
}

// Hide removes a conversation from this user's list only.
func (h *InboxHandler) Hide(c *gin.Context) {
	var req httpdto.HideConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ConversationID == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}

	if err := session.HideConversation(c.Request.Context(), req.ConversationID); err != nil {
		status, code := statusFor(err)
		c.JSON(status, httpdto.NewErrorResponse(err.Error(), code))
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// GetCompose returns the compose box state.
func (h *InboxHandler) GetCompose(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ComposeResponse{Text: session.ComposeText()}))
}

// UpdateCompose mirrors the compose box as the user types.
func (h *InboxHandler) UpdateCompose(c *gin.Context) {
	var req httpdto.UpdateComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	session, ok := h.session(c)
	if !ok {
		return
	}
	session.SetComposeText(req.Text)
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ComposeResponse{Text: session.ComposeText()}))
}
