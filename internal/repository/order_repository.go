package repository

import (
	"context"
	"time"

	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/paging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter narrows order queries. Zero-valued fields do not filter.
type OrderFilter struct {
	UserID    *uuid.UUID
	Status    string
	OrderCode *int64
}

func (f OrderFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.OrderCode != nil {
		db = db.Where("order_code = ?", *f.OrderCode)
	}
	return db
}

// OrderChanges lists the columns a general order update may write. Nil fields stay untouched;
// status and total_amount have their own targeted updates.
type OrderChanges struct {
	UserID      *uuid.UUID
	OrderCode   *int64
	TotalAmount *decimal.Decimal
	ModifiedBy  string
	UpdatedAt   time.Time
}

func (c OrderChanges) columns() map[string]interface{} {
	cols := map[string]interface{}{
		"modified_by": c.ModifiedBy,
		"updated_at":  c.UpdatedAt,
	}
	if c.UserID != nil {
		cols["user_id"] = *c.UserID
	}
	if c.OrderCode != nil {
		cols["order_code"] = *c.OrderCode
	}
	if c.TotalAmount != nil {
		cols["total_amount"] = *c.TotalAmount
	}
	return cols
}

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, id uuid.UUID, changes OrderChanges) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindLatestByOrderCode(ctx context.Context, code int64) (*models.Order, error)
	List(ctx context.Context, filter OrderFilter, page paging.Request) ([]models.Order, error)
	Count(ctx context.Context, filter OrderFilter) (int64, error)
	ExistsByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) (bool, error)
	ExistsByOrderCodeAndStatus(ctx context.Context, code int64, status string) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status, modifiedBy string, at time.Time) error
	UpdateTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
	SummarizeByStatus(ctx context.Context, window TimeWindow) ([]models.StatusSummary, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return conn(ctx, r.db).Create(order).Error
}

// Update writes only the columns set in changes.
func (r *orderRepository) Update(ctx context.Context, id uuid.UUID, changes OrderChanges) error {
	return updateColumns(conn(ctx, r.db).Model(&models.Order{}).Where("id = ?", id), changes.columns())
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := conn(ctx, r.db).First(&order, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// LockByID reads the order with a row lock; only meaningful inside a transaction.
func (r *orderRepository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) FindLatestByOrderCode(ctx context.Context, code int64) (*models.Order, error) {
	var order models.Order
	err := conn(ctx, r.db).
		Where("order_code = ?", code).
		Scopes(newestFirst).
		Take(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter OrderFilter, page paging.Request) ([]models.Order, error) {
	var orders []models.Order
	err := conn(ctx, r.db).
		Model(&models.Order{}).
		Scopes(filter.scope, newestFirst, paginate(page)).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) Count(ctx context.Context, filter OrderFilter) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&models.Order{}).Scopes(filter.scope).Count(&total).Error
	return total, err
}

func (r *orderRepository) ExistsByUserAndStatus(ctx context.Context, userID uuid.UUID, status string) (bool, error) {
	total, err := r.Count(ctx, OrderFilter{UserID: &userID, Status: status})
	return total > 0, err
}

func (r *orderRepository) ExistsByOrderCodeAndStatus(ctx context.Context, code int64, status string) (bool, error) {
	total, err := r.Count(ctx, OrderFilter{OrderCode: &code, Status: status})
	return total > 0, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status, modifiedBy string, at time.Time) error {
	return updateColumns(conn(ctx, r.db).Model(&models.Order{}).Where("id = ?", id), map[string]interface{}{
		"status":      status,
		"modified_by": modifiedBy,
		"updated_at":  at,
	})
}

// UpdateTotalAmount rewrites only total_amount in a single statement.
func (r *orderRepository) UpdateTotalAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	result := conn(ctx, r.db).Model(&models.Order{}).Where("id = ?", id).Update("total_amount", amount)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) SummarizeByStatus(ctx context.Context, window TimeWindow) ([]models.StatusSummary, error) {
	var rows []models.StatusSummary
	err := conn(ctx, r.db).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total_amount").
		Scopes(window.scope("created_at")).
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
