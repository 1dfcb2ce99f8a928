package services

import (
	"context"
	"errors"
	"time"

	"kalban_greenbag/internal/apperror"
	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OrderItemService edits the lines of an order. None of its operations touch the order total;
// callers reconcile it through OrderService.RecalculateTotal or UpdateOrderTotalAmount.
type OrderItemService interface {
	AddItem(ctx context.Context, actor string, orderID uuid.UUID, req AddOrderItemRequest) (*OrderItemResponse, error)
	UpdateItem(ctx context.Context, actor string, req UpdateOrderItemRequest) (*OrderItemResponse, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemResponse, error)
}

type OrderItemServiceDeps struct {
	Orders      repository.OrderRepository
	Items       repository.OrderItemRepository
	Materials   repository.MaterialRepository
	Logger      *logrus.Logger
	Clock       func() time.Time
	IDGenerator func() uuid.UUID
}

type orderItemService struct {
	orders    repository.OrderRepository
	items     repository.OrderItemRepository
	materials repository.MaterialRepository
	logger    *logrus.Logger
	clock     func() time.Time
	newID     func() uuid.UUID
}

func NewOrderItemService(deps OrderItemServiceDeps) (OrderItemService, error) {
	switch {
	case deps.Orders == nil:
		return nil, errors.New("order item service: order repository is required")
	case deps.Items == nil:
		return nil, errors.New("order item service: order item repository is required")
	case deps.Materials == nil:
		return nil, errors.New("order item service: material repository is required")
	}

	return &orderItemService{
		orders:    deps.Orders,
		items:     deps.Items,
		materials: deps.Materials,
		logger:    loggerOrDefault(deps.Logger),
		clock:     clockOrDefault(deps.Clock),
		newID:     idGeneratorOrDefault(deps.IDGenerator),
	}, nil
}

func (s *orderItemService) AddItem(ctx context.Context, actor string, orderID uuid.UUID, req AddOrderItemRequest) (*OrderItemResponse, error) {
	resp, err := s.addItem(ctx, actor, orderID, req)
	return resp, apperror.Wrap(err)
}

func (s *orderItemService) addItem(ctx context.Context, actor string, orderID uuid.UUID, req AddOrderItemRequest) (*OrderItemResponse, error) {
	if err := validateItemValues(req.Quantity, req.UnitPrice); err != nil {
		return nil, err
	}
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, notFound(err, msgOrderNotFound)
	}
	if _, err := s.materials.GetByID(ctx, req.MaterialID); err != nil {
		return nil, notFound(err, msgMaterialNotFound)
	}

	now := s.clock()
	item := models.OrderItem{
		ID:         s.newID(),
		OrderID:    orderID,
		MaterialID: req.MaterialID,
		Quantity:   req.Quantity,
		UnitPrice:  req.UnitPrice,
		CreatedBy:  actor,
		ModifiedBy: actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"item_id":  item.ID,
		"actor":    actor,
	}).Info("Order item added")

	resp := toOrderItemResponse(item)
	return &resp, nil
}

func (s *orderItemService) UpdateItem(ctx context.Context, actor string, req UpdateOrderItemRequest) (*OrderItemResponse, error) {
	resp, err := s.updateItem(ctx, actor, req)
	return resp, apperror.Wrap(err)
}

func (s *orderItemService) updateItem(ctx context.Context, actor string, req UpdateOrderItemRequest) (*OrderItemResponse, error) {
	item, err := s.items.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFound(err, msgOrderItemNotFound)
	}
	if req.MaterialID != nil && *req.MaterialID != item.MaterialID {
		if _, err := s.materials.GetByID(ctx, *req.MaterialID); err != nil {
			return nil, notFound(err, msgMaterialNotFound)
		}
	}

	ApplyOrderItemPatch(item, req)
	if err := validateItemValues(item.Quantity, item.UnitPrice); err != nil {
		return nil, err
	}
	item.ModifiedBy = actor
	item.UpdatedAt = s.clock()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	resp := toOrderItemResponse(*item)
	return &resp, nil
}

func (s *orderItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return apperror.Wrap(notFound(err, msgOrderItemNotFound))
	}
	s.logger.WithField("item_id", id).Info("Order item deleted")
	return nil
}

func (s *orderItemService) ListItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemResponse, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, apperror.Wrap(notFound(err, msgOrderNotFound))
	}
	items, err := s.items.ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperror.Wrap(err)
	}

	responses := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toOrderItemResponse(item))
	}
	return responses, nil
}
