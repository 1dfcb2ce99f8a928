package repository

import (
	"context"

	"kalban_greenbag/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderItemRepository interface {
	Create(ctx context.Context, orderItem *models.OrderItem) error
	CreateBatch(ctx context.Context, orderItems []models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderItem, error)
	Update(ctx context.Context, orderItem *models.OrderItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) Create(ctx context.Context, orderItem *models.OrderItem) error {
	return conn(ctx, r.db).Create(orderItem).Error
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, orderItems []models.OrderItem) error {
	if len(orderItems) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(&orderItems).Error
}

func (r *orderItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var orderItem models.OrderItem
	if err := conn(ctx, r.db).First(&orderItem, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &orderItem, nil
}

func (r *orderItemRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var orderItems []models.OrderItem
	err := conn(ctx, r.db).Where("order_id = ?", orderID).Order("created_at").Find(&orderItems).Error
	return orderItems, err
}

func (r *orderItemRepository) ListByOrderIDs(ctx context.Context, orderIDs []uuid.UUID) ([]models.OrderItem, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var orderItems []models.OrderItem
	err := conn(ctx, r.db).Where("order_id IN ?", orderIDs).Order("created_at").Find(&orderItems).Error
	return orderItems, err
}

func (r *orderItemRepository) Update(ctx context.Context, orderItem *models.OrderItem) error {
	return conn(ctx, r.db).Save(orderItem).Error
}

func (r *orderItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.OrderItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
