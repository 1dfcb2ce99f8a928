package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductCustomization struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID   uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	OptionID    uuid.UUID       `json:"option_id" gorm:"type:uuid;not null"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ImageURL    string          `json:"image_url"`
	CustomValue string          `json:"custom_value" gorm:"type:text"`
	TotalPrice  decimal.Decimal `json:"total_price" gorm:"type:decimal(12,2);not null"`
	Reason      *string         `json:"reason"`
	CreatedBy   string          `json:"created_by"`
	ModifiedBy  string          `json:"modified_by"`
	CreatedAt   time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type CustomizationStatus string

const (
	CustomizationPending  CustomizationStatus = "PENDING"
	CustomizationActive   CustomizationStatus = "ACTIVE"
	CustomizationRejected CustomizationStatus = "REJECTED"
	CustomizationInactive CustomizationStatus = "INACTIVE"
)

// CustomizationStatuses is the customization status vocabulary in reporting order.
var CustomizationStatuses = []CustomizationStatus{
	CustomizationPending,
	CustomizationActive,
	CustomizationRejected,
	CustomizationInactive,
}

func IsCustomizationStatus(status string) bool {
	for _, s := range CustomizationStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}
