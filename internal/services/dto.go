package services

import (
	"time"

	"kalban_greenbag/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddOrderItemRequest struct {
	MaterialID uuid.UUID       `json:"material_id" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

type AddOrderRequest struct {
	UserID    uuid.UUID             `json:"user_id" binding:"required"`
	OrderCode *int64                `json:"order_code" binding:"omitempty,min=1"`
	Items     []AddOrderItemRequest `json:"items" binding:"dive"`
}

// UpdateOrderRequest is a sparse patch; nil fields are left unchanged.
// Status only changes through ChangeStatus.
type UpdateOrderRequest struct {
	ID          uuid.UUID        `json:"id" binding:"required"`
	UserID      *uuid.UUID       `json:"user_id"`
	OrderCode   *int64           `json:"order_code" binding:"omitempty,min=1"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
}

type UpdateOrderItemRequest struct {
	ID         uuid.UUID        `json:"id" binding:"required"`
	MaterialID *uuid.UUID       `json:"material_id"`
	Quantity   *int             `json:"quantity" binding:"omitempty,min=1"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
}

type UpdateTotalAmountRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type AddProductCustomizationRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	OptionID    uuid.UUID       `json:"option_id" binding:"required"`
	UserID      uuid.UUID       `json:"user_id" binding:"required"`
	ImageURL    string          `json:"image_url"`
	CustomValue string          `json:"custom_value"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      string          `json:"status"`
}

type UpdateProductCustomizationRequest struct {
	ID          uuid.UUID        `json:"id" binding:"required"`
	ProductID   *uuid.UUID       `json:"product_id"`
	OptionID    *uuid.UUID       `json:"option_id"`
	UserID      *uuid.UUID       `json:"user_id"`
	ImageURL    *string          `json:"image_url"`
	CustomValue *string          `json:"custom_value"`
	TotalPrice  *decimal.Decimal `json:"total_price"`
	Status      *string          `json:"status"`
	Reason      *string          `json:"reason"`
}

type OrderItemResponse struct {
	ID         uuid.UUID       `json:"id"`
	OrderID    uuid.UUID       `json:"order_id"`
	MaterialID uuid.UUID       `json:"material_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	CreatedBy  string          `json:"created_by"`
	ModifiedBy string          `json:"modified_by"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	UserID      uuid.UUID           `json:"user_id"`
	OrderCode   int64               `json:"order_code"`
	Status      string              `json:"status"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Items       []OrderItemResponse `json:"items"`
	CreatedBy   string              `json:"created_by"`
	ModifiedBy  string              `json:"modified_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type ProductCustomizationResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	OptionID    uuid.UUID       `json:"option_id"`
	UserID      uuid.UUID       `json:"user_id"`
	Status      string          `json:"status"`
	ImageURL    string          `json:"image_url"`
	CustomValue string          `json:"custom_value"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Reason      *string         `json:"reason"`
	CreatedBy   string          `json:"created_by"`
	ModifiedBy  string          `json:"modified_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toOrderItemResponse(item models.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:         item.ID,
		OrderID:    item.OrderID,
		MaterialID: item.MaterialID,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		Subtotal:   item.Subtotal(),
		CreatedBy:  item.CreatedBy,
		ModifiedBy: item.ModifiedBy,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func toOrderResponse(order models.Order, items []models.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:          order.ID,
		UserID:      order.UserID,
		OrderCode:   order.OrderCode,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Items:       make([]OrderItemResponse, 0, len(items)),
		CreatedBy:   order.CreatedBy,
		ModifiedBy:  order.ModifiedBy,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toOrderItemResponse(item))
	}
	return resp
}

func toCustomizationResponse(c models.ProductCustomization) ProductCustomizationResponse {
	return ProductCustomizationResponse{
		ID:          c.ID,
		ProductID:   c.ProductID,
		OptionID:    c.OptionID,
		UserID:      c.UserID,
		Status:      c.Status,
		ImageURL:    c.ImageURL,
		CustomValue: c.CustomValue,
		TotalPrice:  c.TotalPrice,
		Reason:      c.Reason,
		CreatedBy:   c.CreatedBy,
		ModifiedBy:  c.ModifiedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
