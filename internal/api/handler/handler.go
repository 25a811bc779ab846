package handler

import (
	"net/http"

	"github.com/terrence3333/Mindconnect-Demo/internal/gateway"
	"github.com/terrence3333/Mindconnect-Demo/internal/identity"
	"github.com/terrence3333/Mindconnect-Demo/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler wires the gateway into the HTTP layer.
type Handler struct {
	Hub      *gateway.Hub
	Identity identity.Provider
	Store    storage.Store
}

func NewHandler(hub *gateway.Hub, provider identity.Provider, store storage.Store) *Handler {
	return &Handler{Hub: hub, Identity: provider, Store: store}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
