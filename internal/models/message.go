package models

import "gorm.io/gorm"

// Message is one persisted support-group chat message. The embedded gorm.Model
// supplies the durable identifier and the creation timestamp, both assigned by
// the store on insert.
type Message struct {
	gorm.Model

	// RoomID identifies the support-group room the message was posted to.
	RoomID string `gorm:"type:text;not null;index:idx_room_created"`
	// SenderID is the UUID of the author.
	SenderID string `gorm:"type:text;not null;index"`
	// SenderName is the author's display name, denormalized so delivery does
	// not need a user lookup.
	SenderName string `gorm:"type:text;not null"`
	// Body is the message text.
	Body string `gorm:"type:text;not null"`
}

// Wire returns the client-facing view of the message.
func (m *Message) Wire() ChatMessage {
	return ChatMessage{
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}
