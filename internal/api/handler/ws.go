package handler

import (
	"net/http"
	"strings"

	"github.com/terrence3333/Mindconnect-Demo/internal/gateway"
	"github.com/terrence3333/Mindconnect-Demo/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production deployments.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and upgrades the connection.
// The credential is verified and the profile resolved before the upgrade, so
// a rejected connection never reaches the hub and no socket event can fire
// for it. The server's read/write timeouts bound the handshake window.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	token := bearerToken(c)

	userID, err := h.Identity.Verify(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
		return
	}

	user, err := h.Identity.ResolveProfile(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := &gateway.WebSocketClient{
		User: user,
		Conn: conn,
		Send: make(chan models.OutboundEvent, 256),
	}
	client.Session = gateway.NewSession(h.Hub, h.Store, client, user)

	h.Hub.Register(client)
	client.Run()
}

// bearerToken extracts the handshake credential from the Authorization header
// or, for browser WebSocket clients that cannot set headers, from the token
// query parameter.
func bearerToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Query("token")
}
