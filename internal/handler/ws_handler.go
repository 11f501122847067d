package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"unistay-inbox/internal/auth"
	"unistay-inbox/internal/notify"
	"unistay-inbox/internal/transport/httpdto"
	"unistay-inbox/pkg/logger"
)

// WSHandler upgrades authenticated connections onto the notice stream.
type WSHandler struct {
	hub    *notify.Hub
	parser *auth.TokenParser
	logger *logger.Logger

	upgrader websocket.Upgrader
}

func NewWSHandler(hub *notify.Hub, parser *auth.TokenParser, l *logger.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		parser: parser,
		logger: l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The gateway fronts a browser SPA on another origin; CORS is
			// handled at the HTTP layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve authenticates via the token query parameter (browsers cannot set
// headers on WebSocket dials) and pumps notices until the peer disconnects.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = extractBearerHeader(c)
	}
	session, err := h.parser.Parse(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Warnf("websocket upgrade failed: %v", err)
		}
		return
	}
	h.hub.Serve(conn, session.UserID)
}

func extractBearerHeader(c *gin.Context) string {
	const prefix = "Bearer "
	value := c.GetHeader("Authorization")
	if strings.HasPrefix(value, prefix) {
		return value[len(prefix):]
	}
	return ""
}
