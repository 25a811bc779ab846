package gateway

import (
	"encoding/json"
	"log"

	"github.com/terrence3333/Mindconnect-Demo/internal/models"
	"github.com/terrence3333/Mindconnect-Demo/internal/storage"
)

// StartRelay subscribes to the shared Redis channel and fans messages
// published by other gateway instances out to this instance's local room
// members. Messages this instance published itself are skipped; it already
// broadcast them locally before publishing.
func (h *Hub) StartRelay(store storage.Store) {
	go func() {
		for msg := range store.Subscribe() {
			var env models.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("Error decoding relay payload: %v", err)
				continue
			}
			if env.Origin == h.origin {
				continue
			}

			wire := env.Message
			h.Broadcast(env.RoomID, nil, models.OutboundEvent{
				Event:       models.EventNewMessage,
				RoomID:      env.RoomID,
				ChatMessage: &wire,
			})
		}
	}()
}
