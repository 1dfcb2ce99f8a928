package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index"`
	MaterialID uuid.UUID       `json:"material_id" gorm:"type:uuid;not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	CreatedBy  string          `json:"created_by"`
	ModifiedBy string          `json:"modified_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// SumSubtotals is the order total for the given items.
func SumSubtotals(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
