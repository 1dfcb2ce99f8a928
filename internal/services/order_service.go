package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kalban_greenbag/internal/apperror"
	"kalban_greenbag/internal/events"
	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/paging"
	"kalban_greenbag/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type OrderService interface {
	Create(ctx context.Context, actor string, req AddOrderRequest) (*OrderResponse, error)
	Update(ctx context.Context, actor string, req UpdateOrderRequest) (*OrderResponse, error)
	ChangeStatus(ctx context.Context, actor string, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error)
	GetAll(ctx context.Context, page, limit *int) (paging.Model[OrderResponse], error)
	FindAllByStatusTrue(ctx context.Context, page, limit *int) (paging.Model[OrderResponse], error)
	GetOrderByUserID(ctx context.Context, userID uuid.UUID, status string, page, limit *int) (paging.Model[OrderResponse], error)
	GetOrderByOrderCode(ctx context.Context, code int64, page, limit *int) (paging.Model[OrderResponse], error)
	FindByOrderCode(ctx context.Context, code int64) (*OrderResponse, error)
	HasOrderWithStatus(ctx context.Context, userID uuid.UUID, status string) (bool, error)
	UpdateOrderTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	RecalculateTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

type OrderServiceDeps struct {
	Orders      repository.OrderRepository
	Items       repository.OrderItemRepository
	Users       repository.UserRepository
	Materials   repository.MaterialRepository
	Codes       OrderCodeGenerator
	Tx          repository.TxManager
	Events      events.Publisher
	Logger      *logrus.Logger
	Clock       func() time.Time
	IDGenerator func() uuid.UUID
}

type orderService struct {
	orders    repository.OrderRepository
	items     repository.OrderItemRepository
	users     repository.UserRepository
	materials repository.MaterialRepository
	codes     OrderCodeGenerator
	tx        repository.TxManager
	events    events.Publisher
	logger    *logrus.Logger
	clock     func() time.Time
	newID     func() uuid.UUID
}

func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	switch {
	case deps.Orders == nil:
		return nil, errors.New("order service: order repository is required")
	case deps.Items == nil:
		return nil, errors.New("order service: order item repository is required")
	case deps.Users == nil:
		return nil, errors.New("order service: user repository is required")
	case deps.Materials == nil:
		return nil, errors.New("order service: material repository is required")
	case deps.Codes == nil:
		return nil, errors.New("order service: order code generator is required")
	case deps.Tx == nil:
		return nil, errors.New("order service: transaction manager is required")
	}

	publisher := deps.Events
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &orderService{
		orders:    deps.Orders,
		items:     deps.Items,
		users:     deps.Users,
		materials: deps.Materials,
		codes:     deps.Codes,
		tx:        deps.Tx,
		events:    publisher,
		logger:    loggerOrDefault(deps.Logger),
		clock:     clockOrDefault(deps.Clock),
		newID:     idGeneratorOrDefault(deps.IDGenerator),
	}, nil
}

func (s *orderService) Create(ctx context.Context, actor string, req AddOrderRequest) (*OrderResponse, error) {
	resp, err := s.create(ctx, actor, req)
	return resp, apperror.Wrap(err)
}

func (s *orderService) create(ctx context.Context, actor string, req AddOrderRequest) (*OrderResponse, error) {
	if err := s.requireUser(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.requireMaterials(ctx, req.Items); err != nil {
		return nil, err
	}

	code, err := s.allocateCode(ctx, req.OrderCode)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	order := models.Order{
		ID:         s.newID(),
		UserID:     req.UserID,
		OrderCode:  code,
		Status:     string(models.OrderActive),
		CreatedBy:  actor,
		ModifiedBy: actor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		items = append(items, models.OrderItem{
			ID:         s.newID(),
			OrderID:    order.ID,
			MaterialID: itemReq.MaterialID,
			Quantity:   itemReq.Quantity,
			UnitPrice:  itemReq.UnitPrice,
			CreatedBy:  actor,
			ModifiedBy: actor,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	order.TotalAmount = models.SumSubtotals(items)

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.orders.Create(ctx, &order); err != nil {
			return err
		}
		return s.items.CreateBatch(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"order_code": order.OrderCode,
		"user_id":    order.UserID,
		"items":      len(items),
		"actor":      actor,
	}).Info("Order created")

	s.publish(ctx, events.OrderCreated, order, actor)

	resp := toOrderResponse(order, items)
	return &resp, nil
}

func (s *orderService) requireUser(ctx context.Context, userID uuid.UUID) error {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound(msgUserNotFound)
	}
	return nil
}

func (s *orderService) requireMaterials(ctx context.Context, items []AddOrderItemRequest) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if err := validateItemValues(item.Quantity, item.UnitPrice); err != nil {
			return err
		}
		if _, ok := seen[item.MaterialID]; ok {
			continue
		}
		seen[item.MaterialID] = struct{}{}
		ids = append(ids, item.MaterialID)
	}
	if len(ids) == 0 {
		return nil
	}

	found, err := s.materials.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return apperror.NotFound(msgMaterialNotFound)
	}
	return nil
}

func validateItemValues(quantity int, unitPrice decimal.Decimal) error {
	if quantity < 1 {
		return apperror.Validation("Quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return apperror.Validation("Unit price must not be negative")
	}
	return nil
}

// maxCodeDraws bounds how many sequence values are skipped over codes already held by active orders.
const maxCodeDraws = 100

// allocateCode uses the requested code when it is free among active orders, otherwise draws
// from the sequence, skipping values that were handed in explicitly and are still active.
func (s *orderService) allocateCode(ctx context.Context, requested *int64) (int64, error) {
	if requested != nil {
		if err := s.requireFreeCode(ctx, *requested); err != nil {
			return 0, err
		}
		return *requested, nil
	}

	for i := 0; i < maxCodeDraws; i++ {
		code, err := s.codes.NextOrderCode(ctx)
		if err != nil {
			return 0, err
		}
		taken, err := s.codeTaken(ctx, code)
		if err != nil {
			return 0, err
		}
		if !taken {
			return code, nil
		}
		s.logger.WithField("order_code", code).Warn("Sequence order code already in use, drawing again")
	}
	return 0, fmt.Errorf("no free order code after %d draws", maxCodeDraws)
}

func (s *orderService) codeTaken(ctx context.Context, code int64) (bool, error) {
	return s.orders.ExistsByOrderCodeAndStatus(ctx, code, string(models.OrderActive))
}

func (s *orderService) requireFreeCode(ctx context.Context, code int64) error {
	taken, err := s.codeTaken(ctx, code)
	if err != nil {
		return err
	}
	if taken {
		return apperror.Validation("Order code is already used by an active order")
	}
	return nil
}

func (s *orderService) Update(ctx context.Context, actor string, req UpdateOrderRequest) (*OrderResponse, error) {
	resp, err := s.update(ctx, actor, req)
	return resp, apperror.Wrap(err)
}

func (s *orderService) update(ctx context.Context, actor string, req UpdateOrderRequest) (*OrderResponse, error) {
	order, err := s.orders.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFound(err, msgOrderNotFound)
	}

	if req.UserID != nil && *req.UserID != order.UserID {
		if err := s.requireUser(ctx, *req.UserID); err != nil {
			return nil, err
		}
	}
	if req.OrderCode != nil && *req.OrderCode != order.OrderCode && order.Status == string(models.OrderActive) {
		if err := s.requireFreeCode(ctx, *req.OrderCode); err != nil {
			return nil, err
		}
	}
	if req.TotalAmount != nil && req.TotalAmount.IsNegative() {
		return nil, apperror.Validation("Total amount must not be negative")
	}

	changes := repository.OrderChanges{
		UserID:      req.UserID,
		OrderCode:   req.OrderCode,
		TotalAmount: req.TotalAmount,
		ModifiedBy:  actor,
		UpdatedAt:   s.clock(),
	}
	if err := s.orders.Update(ctx, order.ID, changes); err != nil {
		return nil, notFound(err, msgOrderNotFound)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"actor":    actor,
	}).Info("Order updated")

	// reread so concurrent status or total changes show through
	updated, err := s.orders.GetByID(ctx, order.ID)
	if err != nil {
		return nil, notFound(err, msgOrderNotFound)
	}
	return s.withItems(ctx, *updated)
}

func (s *orderService) ChangeStatus(ctx context.Context, actor string, id uuid.UUID) (bool, error) {
	changed, err := s.changeStatus(ctx, actor, id)
	return changed, apperror.Wrap(err)
}

func (s *orderService) changeStatus(ctx context.Context, actor string, id uuid.UUID) (bool, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return false, notFound(err, msgOrderNotFound)
	}

	if err := s.orders.UpdateStatus(ctx, id, string(models.OrderInactive), actor, s.clock()); err != nil {
		return false, notFound(err, msgOrderNotFound)
	}
	order.Status = string(models.OrderInactive)

	s.logger.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"order_code": order.OrderCode,
		"actor":      actor,
	}).Info("Order deactivated")

	s.publish(ctx, events.OrderStatusChanged, *order, actor)
	return true, nil
}

func (s *orderService) FindByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(notFound(err, msgOrderNotFound))
	}
	resp, err := s.withItems(ctx, *order)
	return resp, apperror.Wrap(err)
}

func (s *orderService) GetAll(ctx context.Context, page, limit *int) (paging.Model[OrderResponse], error) {
	result, err := s.list(ctx, repository.OrderFilter{}, page, limit)
	return result, apperror.Wrap(err)
}

func (s *orderService) FindAllByStatusTrue(ctx context.Context, page, limit *int) (paging.Model[OrderResponse], error) {
	result, err := s.list(ctx, repository.OrderFilter{Status: string(models.OrderActive)}, page, limit)
	return result, apperror.Wrap(err)
}

// GetOrderByUserID lists a user's orders. An empty status returns every status.
func (s *orderService) GetOrderByUserID(ctx context.Context, userID uuid.UUID, status string, page, limit *int) (paging.Model[OrderResponse], error) {
	normalized, err := normalizeOrderStatus(status)
	if err != nil {
		return paging.Model[OrderResponse]{}, err
	}

	result, err := s.list(ctx, repository.OrderFilter{UserID: &userID, Status: normalized}, page, limit)
	return result, apperror.Wrap(err)
}

func (s *orderService) GetOrderByOrderCode(ctx context.Context, code int64, page, limit *int) (paging.Model[OrderResponse], error) {
	result, err := s.list(ctx, repository.OrderFilter{OrderCode: &code}, page, limit)
	return result, apperror.Wrap(err)
}

// FindByOrderCode returns the most recently created order carrying code.
func (s *orderService) FindByOrderCode(ctx context.Context, code int64) (*OrderResponse, error) {
	order, err := s.orders.FindLatestByOrderCode(ctx, code)
	if err != nil {
		return nil, apperror.Wrap(notFound(err, msgOrderNotFound))
	}
	resp, err := s.withItems(ctx, *order)
	return resp, apperror.Wrap(err)
}

// HasOrderWithStatus reports whether the user holds an order in status. The status is required.
func (s *orderService) HasOrderWithStatus(ctx context.Context, userID uuid.UUID, status string) (bool, error) {
	normalized, err := normalizeOrderStatus(status)
	if err != nil {
		return false, err
	}
	if normalized == "" {
		return false, apperror.Validation("Order status is required")
	}
	exists, err := s.orders.ExistsByUserAndStatus(ctx, userID, normalized)
	return exists, apperror.Wrap(err)
}

// normalizeOrderStatus upper-cases and trims status. Empty stays empty; anything outside ACTIVE and INACTIVE is rejected.
func normalizeOrderStatus(status string) (string, error) {
	switch normalized := strings.ToUpper(strings.TrimSpace(status)); normalized {
	case "", string(models.OrderActive), string(models.OrderInactive):
		return normalized, nil
	default:
		return "", apperror.Validation("Invalid order status: " + status)
	}
}

func (s *orderService) UpdateOrderTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return apperror.Validation("Total amount must not be negative")
	}
	if err := s.orders.UpdateTotalAmount(ctx, id, amount); err != nil {
		return apperror.Wrap(notFound(err, msgOrderNotFound))
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     id,
		"total_amount": amount.StringFixed(2),
	}).Info("Order total updated")

	s.publish(ctx, events.OrderTotalUpdated, models.Order{ID: id, TotalAmount: amount}, "")
	return nil
}

// RecalculateTotal stores the sum of the order's current item subtotals.
// The order row stays locked while items are summed.
func (s *orderService) RecalculateTotal(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.orders.LockByID(ctx, id); err != nil {
			return notFound(err, msgOrderNotFound)
		}
		items, err := s.items.ListByOrderID(ctx, id)
		if err != nil {
			return err
		}
		total = models.SumSubtotals(items)
		return notFound(s.orders.UpdateTotalAmount(ctx, id, total), msgOrderNotFound)
	})
	if err != nil {
		return decimal.Zero, apperror.Wrap(err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     id,
		"total_amount": total.StringFixed(2),
	}).Info("Order total recalculated")

	s.publish(ctx, events.OrderTotalUpdated, models.Order{ID: id, TotalAmount: total}, "")
	return total, nil
}

func (s *orderService) list(ctx context.Context, filter repository.OrderFilter, page, limit *int) (paging.Model[OrderResponse], error) {
	req := paging.Normalize(page, limit)

	orders, err := s.orders.List(ctx, filter, req)
	if err != nil {
		return paging.Model[OrderResponse]{}, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return paging.Model[OrderResponse]{}, err
	}

	responses, err := s.toResponses(ctx, orders)
	if err != nil {
		return paging.Model[OrderResponse]{}, err
	}
	return paging.New(req, total, responses), nil
}

// toResponses loads the items of every order on the page in one query.
func (s *orderService) toResponses(ctx context.Context, orders []models.Order) ([]OrderResponse, error) {
	ids := make([]uuid.UUID, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	items, err := s.items.ListByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uuid.UUID][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order, byOrder[order.ID]))
	}
	return responses, nil
}

func (s *orderService) withItems(ctx context.Context, order models.Order) (*OrderResponse, error) {
	items, err := s.items.ListByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	resp := toOrderResponse(order, items)
	return &resp, nil
}

// publish never fails the caller; delivery errors are only logged.
func (s *orderService) publish(ctx context.Context, eventType string, order models.Order, actor string) {
	event := events.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID.String(),
		OrderCode:   order.OrderCode,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Actor:       actor,
		EventTime:   s.clock().UTC(),
	}
	if order.UserID != uuid.Nil {
		event.UserID = order.UserID.String()
	}

	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":   event.OrderID,
			"event_type": eventType,
		}).Error("Failed to publish order event")
	}
}
