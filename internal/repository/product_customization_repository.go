package repository

import (
	"context"
	"time"

	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/paging"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CustomizationFilter narrows customization queries. Zero-valued fields do not filter.
type CustomizationFilter struct {
	UserID *uuid.UUID
	Status string
}

func (f CustomizationFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// CustomizationChanges lists the columns a customization update writes. Nil fields stay untouched.
// ClearReason stores NULL in reason and wins over Reason.
type CustomizationChanges struct {
	ProductID   *uuid.UUID
	OptionID    *uuid.UUID
	UserID      *uuid.UUID
	ImageURL    *string
	CustomValue *string
	TotalPrice  *decimal.Decimal
	Status      *string
	Reason      *string
	ClearReason bool
	ModifiedBy  string
	UpdatedAt   time.Time
}

func (c CustomizationChanges) columns() map[string]interface{} {
	cols := map[string]interface{}{
		"modified_by": c.ModifiedBy,
		"updated_at":  c.UpdatedAt,
	}
	if c.ProductID != nil {
		cols["product_id"] = *c.ProductID
	}
	if c.OptionID != nil {
		cols["option_id"] = *c.OptionID
	}
	if c.UserID != nil {
		cols["user_id"] = *c.UserID
	}
	if c.ImageURL != nil {
		cols["image_url"] = *c.ImageURL
	}
	if c.CustomValue != nil {
		cols["custom_value"] = *c.CustomValue
	}
	if c.TotalPrice != nil {
		cols["total_price"] = *c.TotalPrice
	}
	if c.Status != nil {
		cols["status"] = *c.Status
	}
	switch {
	case c.ClearReason:
		cols["reason"] = nil
	case c.Reason != nil:
		cols["reason"] = *c.Reason
	}
	return cols
}

type ProductCustomizationRepository interface {
	Create(ctx context.Context, customization *models.ProductCustomization) error
	Update(ctx context.Context, id uuid.UUID, changes CustomizationChanges) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductCustomization, error)
	List(ctx context.Context, filter CustomizationFilter, page paging.Request) ([]models.ProductCustomization, error)
	Count(ctx context.Context, filter CustomizationFilter) (int64, error)
	SummarizeByStatus(ctx context.Context, window TimeWindow) ([]models.StatusSummary, error)
}

type productCustomizationRepository struct {
	db *gorm.DB
}

func NewProductCustomizationRepository(db *gorm.DB) ProductCustomizationRepository {
	return &productCustomizationRepository{db: db}
}

func (r *productCustomizationRepository) Create(ctx context.Context, customization *models.ProductCustomization) error {
	return conn(ctx, r.db).Create(customization).Error
}

// Update writes only the columns set in changes.
func (r *productCustomizationRepository) Update(ctx context.Context, id uuid.UUID, changes CustomizationChanges) error {
	return updateColumns(conn(ctx, r.db).Model(&models.ProductCustomization{}).Where("id = ?", id), changes.columns())
}

func (r *productCustomizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductCustomization, error) {
	var customization models.ProductCustomization
	if err := conn(ctx, r.db).First(&customization, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &customization, nil
}

func (r *productCustomizationRepository) List(ctx context.Context, filter CustomizationFilter, page paging.Request) ([]models.ProductCustomization, error) {
	var customizations []models.ProductCustomization
	err := conn(ctx, r.db).
		Model(&models.ProductCustomization{}).
		Scopes(filter.scope, newestFirst, paginate(page)).
		Find(&customizations).Error
	return customizations, err
}

func (r *productCustomizationRepository) Count(ctx context.Context, filter CustomizationFilter) (int64, error) {
	var total int64
	err := conn(ctx, r.db).Model(&models.ProductCustomization{}).Scopes(filter.scope).Count(&total).Error
	return total, err
}

func (r *productCustomizationRepository) SummarizeByStatus(ctx context.Context, window TimeWindow) ([]models.StatusSummary, error) {
	var rows []models.StatusSummary
	err := conn(ctx, r.db).
		Model(&models.ProductCustomization{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS total_amount").
		Scopes(window.scope("created_at")).
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}
