package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// User is a registered member of the platform. The gateway only ever reads
// users; registration and profile editing belong to the account service.
type User struct {
	// ID is the user's UUID, referenced by messages as the sender.
	ID string `gorm:"primaryKey" json:"id"`
	// Email is the login identity; unique across the platform.
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// FullName is the display name delivered alongside messages and presence events.
	FullName string `gorm:"type:text;not null" json:"full_name"`
	// Role is one of "user", "counselor" or "admin".
	Role string `gorm:"type:text;not null;default:user" json:"role"`
	// SupportTopics holds the support-group topic tags the user follows.
	SupportTopics pq.StringArray `gorm:"type:text[]" json:"support_topics"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the record has no ID yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
