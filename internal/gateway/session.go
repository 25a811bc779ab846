package gateway

import (
	"log"
	"strings"

	"github.com/terrence3333/Mindconnect-Demo/internal/models"
	"github.com/terrence3333/Mindconnect-Demo/internal/storage"
)

// Session is the per-connection gateway context. It is created only after the
// handshake has resolved a user profile, so no room operation is reachable for
// an unauthenticated connection.
//
// HandleEvent is called from the connection's read loop, one event at a time,
// which preserves the client's own event order. Store calls block only this
// session; membership mutation and fan-out are handed to the hub loop, and
// because both the private delivery and the follow-up broadcast are issued
// from this goroutine, persist-before-broadcast and history-before-presence
// ordering hold without extra locking.
type Session struct {
	hub    *Hub
	store  storage.Store
	client Client
	user   *models.User
}

func NewSession(hub *Hub, store storage.Store, client Client, user *models.User) *Session {
	return &Session{hub: hub, store: store, client: client, user: user}
}

// HandleEvent dispatches one inbound event.
func (s *Session) HandleEvent(ev models.InboundEvent) {
	roomID := strings.TrimSpace(ev.RoomID)
	if roomID == "" {
		s.deliverError("room id is required")
		return
	}

	switch ev.Event {
	case models.EventJoinRoom:
		s.joinRoom(roomID)
	case models.EventLeaveRoom:
		s.leaveRoom(roomID)
	case models.EventSendMessage:
		s.sendMessage(roomID, ev.Body)
	case models.EventTyping:
		s.typing(roomID, models.EventUserTyping, s.user.FullName)
	case models.EventStopTyping:
		s.typing(roomID, models.EventUserStopTyping, "")
	default:
		s.deliverError("unknown event")
	}
}

// Disconnect is called by the transport on teardown. The hub announces the
// departure to every room the connection was a member of and discards all of
// its state. Idempotent.
func (s *Session) Disconnect() {
	s.hub.Unregister(s.client)
}

// joinRoom adds the membership, delivers recent history privately and then
// announces the join to the other members. A failed history fetch reports a
// private error and suppresses the presence broadcast; the membership itself
// stays, matching leave/send behavior for a joined client.
func (s *Session) joinRoom(roomID string) {
	s.hub.Join(s.client, roomID)

	recent, err := s.store.RecentMessages(roomID, historyLimit)
	if err != nil {
		s.deliverError("failed to join room")
		return
	}

	// The store returns newest first; reverse for display order.
	history := make([]models.ChatMessage, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, recent[i].Wire())
	}

	s.client.Deliver(models.OutboundEvent{
		Event:    models.EventPreviousMessages,
		RoomID:   roomID,
		Messages: history,
	})
	s.hub.Broadcast(roomID, s.client, models.OutboundEvent{
		Event:    models.EventUserJoined,
		RoomID:   roomID,
		UserID:   s.user.ID,
		UserName: s.user.FullName,
	})
}

func (s *Session) leaveRoom(roomID string) {
	s.hub.Leave(s.client, roomID)
}

// sendMessage persists the message and, only after the store has acknowledged
// the write, broadcasts the enriched message to the whole room (sender
// included) and publishes it for other gateway instances. A failed write is
// reported privately and never retried; the client must resend.
func (s *Session) sendMessage(roomID, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		s.deliverError("message body must not be empty")
		return
	}

	msg := &models.Message{
		RoomID:     roomID,
		SenderID:   s.user.ID,
		SenderName: s.user.FullName,
		Body:       body,
	}
	if err := s.store.AppendMessage(msg); err != nil {
		s.deliverError("failed to send message")
		return
	}

	wire := msg.Wire()
	s.hub.Broadcast(roomID, nil, models.OutboundEvent{
		Event:       models.EventNewMessage,
		RoomID:      roomID,
		ChatMessage: &wire,
	})

	env := models.Envelope{Origin: s.hub.Origin(), RoomID: roomID, Message: wire}
	if err := s.store.PublishMessage(env); err != nil {
		// Local members already got the message; only the relay missed it.
		log.Printf("ERROR: Failed to publish message %d to relay: %v", wire.ID, err)
	}
}

// typing fans an ephemeral indicator out to the other members. Best effort:
// not persisted, never retried.
func (s *Session) typing(roomID, event, userName string) {
	s.hub.Broadcast(roomID, s.client, models.OutboundEvent{
		Event:    event,
		RoomID:   roomID,
		UserID:   s.user.ID,
		UserName: userName,
	})
}

func (s *Session) deliverError(message string) {
	s.client.Deliver(models.OutboundEvent{
		Event: models.EventError,
		Error: message,
	})
}
