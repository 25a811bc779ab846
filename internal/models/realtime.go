package models

import "time"

// Event names accepted from clients.
const (
	EventJoinRoom    = "join-room"
	EventLeaveRoom   = "leave-room"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
)

// Event names delivered to clients.
const (
	EventPreviousMessages = "previous-messages"
	EventNewMessage       = "new-message"
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventUserTyping       = "user-typing"
	EventUserStopTyping   = "user-stop-typing"
	EventError            = "error"
)

// ChatMessage is the JSON view of a persisted message.
type ChatMessage struct {
	ID         uint      `json:"id"`
	RoomID     string    `json:"room_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// InboundEvent is one client request read off the socket. Event selects the
// operation; RoomID is required for every operation and Body only for
// send-message.
type InboundEvent struct {
	Event  string `json:"event"`
	RoomID string `json:"room_id"`
	Body   string `json:"body"`
}

// OutboundEvent is one server-to-client event. The payload fields used depend
// on Event: Messages for previous-messages, the embedded ChatMessage for
// new-message (its fields flatten into the event, so the message document is
// the payload), UserID and UserName for presence and typing events, Error for
// error. Messages carries no omitempty so an empty history page serializes as
// an empty array rather than disappearing.
type OutboundEvent struct {
	Event    string        `json:"event"`
	RoomID   string        `json:"room_id,omitempty"`
	Messages []ChatMessage `json:"messages"`
	*ChatMessage
	UserID   string `json:"user_id,omitempty"`
	UserName string `json:"user_name,omitempty"`
	Error    string `json:"message,omitempty"`
}

// Envelope wraps a broadcast message on the Redis relay channel. Origin is the
// publishing gateway instance, so an instance can skip messages it already
// fanned out locally.
type Envelope struct {
	Origin  string      `json:"origin"`
	RoomID  string      `json:"room_id"`
	Message ChatMessage `json:"message"`
}
