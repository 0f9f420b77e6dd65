package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxMessagesPerEmail limits how many contact messages a single email address
// may accumulate. Like the featured cap, this is a check-then-act soft limit.
const MaxMessagesPerEmail = 5

// ContactMessage represents an inbound visitor inquiry from the contact form
type ContactMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" gorm:"type:text;not null;index"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
