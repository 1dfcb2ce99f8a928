package models

import (
	"time"

	"github.com/google/uuid"
)

// User is only read by the engine; accounts are managed elsewhere.
type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Email     string    `json:"email" gorm:"unique;not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
