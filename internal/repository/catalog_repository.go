package repository

import (
	"context"

	"kalban_greenbag/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type CustomizationOptionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error)
}

type MaterialRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Material, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := conn(ctx, r.db).First(&product, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

type customizationOptionRepository struct {
	db *gorm.DB
}

func NewCustomizationOptionRepository(db *gorm.DB) CustomizationOptionRepository {
	return &customizationOptionRepository{db: db}
}

func (r *customizationOptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.CustomizationOption, error) {
	var option models.CustomizationOption
	if err := conn(ctx, r.db).First(&option, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &option, nil
}

type materialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	if err := conn(ctx, r.db).First(&material, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &material, nil
}

func (r *materialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var materials []models.Material
	err := conn(ctx, r.db).Where("id IN ?", ids).Find(&materials).Error
	return materials, err
}
