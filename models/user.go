package models

import (
	"time"

	"github.com/google/uuid"
)

// RoleAdmin is the only role this system issues.
const RoleAdmin = "admin"

// User is the single operator account. Registration is disabled once one exists.
// The password hash never leaves the server.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;not null"`
	Email     string    `json:"email" gorm:"type:text;not null;unique"`
	Password  string    `json:"-" gorm:"type:text;not null"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Role      string    `json:"role" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
