package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string          `json:"name" gorm:"not null"`
	BasePrice  decimal.Decimal `json:"base_price" gorm:"type:decimal(12,2);not null"`
	FinalPrice decimal.Decimal `json:"final_price" gorm:"type:decimal(12,2);not null"`
	Status     string          `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type CustomizationOption struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string          `json:"name" gorm:"not null"`
	Type      string          `json:"type"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null;default:0"`
	Status    string          `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Material struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string          `json:"name" gorm:"not null"`
	Unit      string          `json:"unit"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
