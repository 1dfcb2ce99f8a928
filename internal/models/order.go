package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderCode   int64           `json:"order_code" gorm:"not null;index"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	CreatedBy   string          `json:"created_by"`
	ModifiedBy  string          `json:"modified_by"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type OrderStatus string

const (
	OrderActive   OrderStatus = "ACTIVE"
	OrderInactive OrderStatus = "INACTIVE"
)

// OrderStatuses is the order status vocabulary in reporting order.
var OrderStatuses = []OrderStatus{OrderActive, OrderInactive}

// StatusSummary is one GROUP BY status row.
type StatusSummary struct {
	Status      string
	Count       int64
	TotalAmount decimal.Decimal
}
