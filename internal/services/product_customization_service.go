package services

import (
	"context"
	"errors"
	"time"

	"kalban_greenbag/internal/apperror"
	"kalban_greenbag/internal/models"
	"kalban_greenbag/internal/paging"
	"kalban_greenbag/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProductCustomizationService interface {
	Create(ctx context.Context, actor string, req AddProductCustomizationRequest) (*ProductCustomizationResponse, error)
	Update(ctx context.Context, actor string, req UpdateProductCustomizationRequest) (*ProductCustomizationResponse, error)
	ChangeStatus(ctx context.Context, actor string, id uuid.UUID) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*ProductCustomizationResponse, error)
	GetAll(ctx context.Context, page, limit *int) (paging.Model[ProductCustomizationResponse], error)
	FindAllByStatusTrue(ctx context.Context, page, limit *int) (paging.Model[ProductCustomizationResponse], error)
	GetProductCustomByUserID(ctx context.Context, userID uuid.UUID, page, limit *int) (paging.Model[ProductCustomizationResponse], error)
}

type ProductCustomizationServiceDeps struct {
	Customizations repository.ProductCustomizationRepository
	Products       repository.ProductRepository
	Options        repository.CustomizationOptionRepository
	Logger         *logrus.Logger
	Clock          func() time.Time
	IDGenerator    func() uuid.UUID
}

type productCustomizationService struct {
	customizations repository.ProductCustomizationRepository
	products       repository.ProductRepository
	options        repository.CustomizationOptionRepository
	logger         *logrus.Logger
	clock          func() time.Time
	newID          func() uuid.UUID
}

func NewProductCustomizationService(deps ProductCustomizationServiceDeps) (ProductCustomizationService, error) {
	switch {
	case deps.Customizations == nil:
		return nil, errors.New("customization service: customization repository is required")
	case deps.Products == nil:
		return nil, errors.New("customization service: product repository is required")
	case deps.Options == nil:
		return nil, errors.New("customization service: customization option repository is required")
	}

	return &productCustomizationService{
		customizations: deps.Customizations,
		products:       deps.Products,
		options:        deps.Options,
		logger:         loggerOrDefault(deps.Logger),
		clock:          clockOrDefault(deps.Clock),
		newID:          idGeneratorOrDefault(deps.IDGenerator),
	}, nil
}

func (s *productCustomizationService) Create(ctx context.Context, actor string, req AddProductCustomizationRequest) (*ProductCustomizationResponse, error) {
	resp, err := s.create(ctx, actor, req)
	return resp, apperror.Wrap(err)
}

// create prices the customization as the requested price plus the product's final price.
func (s *productCustomizationService) create(ctx context.Context, actor string, req AddProductCustomizationRequest) (*ProductCustomizationResponse, error) {
	status := req.Status
	if status == "" {
		status = string(models.CustomizationPending)
	}
	if !models.IsCustomizationStatus(status) {
		return nil, apperror.Validation("Invalid customization status: " + status)
	}
	if req.TotalPrice.IsNegative() {
		return nil, apperror.Validation("Total price must not be negative")
	}

	product, err := s.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, notFound(err, msgProductNotFound)
	}
	if _, err := s.options.GetByID(ctx, req.OptionID); err != nil {
		return nil, notFound(err, msgOptionNotFound)
	}

	now := s.clock()
	customization := models.ProductCustomization{
		ID:          s.newID(),
		ProductID:   product.ID,
		OptionID:    req.OptionID,
		UserID:      req.UserID,
		Status:      status,
		ImageURL:    req.ImageURL,
		CustomValue: req.CustomValue,
		TotalPrice:  req.TotalPrice.Add(product.FinalPrice),
		CreatedBy:   actor,
		ModifiedBy:  actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.customizations.Create(ctx, &customization); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customization_id": customization.ID,
		"product_id":       customization.ProductID,
		"user_id":          customization.UserID,
		"actor":            actor,
	}).Info("Product customization created")

	resp := toCustomizationResponse(customization)
	return &resp, nil
}

func (s *productCustomizationService) Update(ctx context.Context, actor string, req UpdateProductCustomizationRequest) (*ProductCustomizationResponse, error) {
	resp, err := s.update(ctx, actor, req)
	return resp, apperror.Wrap(err)
}

func (s *productCustomizationService) update(ctx context.Context, actor string, req UpdateProductCustomizationRequest) (*ProductCustomizationResponse, error) {
	customization, err := s.customizations.GetByID(ctx, req.ID)
	if err != nil {
		return nil, notFound(err, msgCustomizationNotFound)
	}
	if req.ProductID != nil {
		if _, err := s.products.GetByID(ctx, *req.ProductID); err != nil {
			return nil, notFound(err, msgProductNotFound)
		}
	}
	if req.OptionID != nil {
		if _, err := s.options.GetByID(ctx, *req.OptionID); err != nil {
			return nil, notFound(err, msgOptionNotFound)
		}
	}

	if err := ApplyCustomizationPatch(customization, req); err != nil {
		return nil, err
	}
	changes := customizationChanges(customization, req, actor, s.clock())
	if err := s.customizations.Update(ctx, customization.ID, changes); err != nil {
		return nil, notFound(err, msgCustomizationNotFound)
	}

	s.logger.WithFields(logrus.Fields{
		"customization_id": customization.ID,
		"status":           customization.Status,
		"actor":            actor,
	}).Info("Product customization updated")

	updated, err := s.customizations.GetByID(ctx, customization.ID)
	if err != nil {
		return nil, notFound(err, msgCustomizationNotFound)
	}
	resp := toCustomizationResponse(*updated)
	return &resp, nil
}

func (s *productCustomizationService) ChangeStatus(ctx context.Context, actor string, id uuid.UUID) (bool, error) {
	inactive := string(models.CustomizationInactive)
	err := s.customizations.Update(ctx, id, repository.CustomizationChanges{
		Status:      &inactive,
		ClearReason: true,
		ModifiedBy:  actor,
		UpdatedAt:   s.clock(),
	})
	if err != nil {
		return false, apperror.Wrap(notFound(err, msgCustomizationNotFound))
	}

	s.logger.WithFields(logrus.Fields{
		"customization_id": id,
		"actor":            actor,
	}).Info("Product customization deactivated")
	return true, nil
}

func (s *productCustomizationService) FindByID(ctx context.Context, id uuid.UUID) (*ProductCustomizationResponse, error) {
	customization, err := s.customizations.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(notFound(err, msgCustomizationNotFound))
	}
	resp := toCustomizationResponse(*customization)
	return &resp, nil
}

func (s *productCustomizationService) GetAll(ctx context.Context, page, limit *int) (paging.Model[ProductCustomizationResponse], error) {
	return s.list(ctx, repository.CustomizationFilter{}, page, limit)
}

func (s *productCustomizationService) FindAllByStatusTrue(ctx context.Context, page, limit *int) (paging.Model[ProductCustomizationResponse], error) {
	return s.list(ctx, repository.CustomizationFilter{Status: string(models.CustomizationActive)}, page, limit)
}

func (s *productCustomizationService) GetProductCustomByUserID(ctx context.Context, userID uuid.UUID, page, limit *int) (paging.Model[ProductCustomizationResponse], error) {
	return s.list(ctx, repository.CustomizationFilter{UserID: &userID}, page, limit)
}

func (s *productCustomizationService) list(ctx context.Context, filter repository.CustomizationFilter, page, limit *int) (paging.Model[ProductCustomizationResponse], error) {
	req := paging.Normalize(page, limit)

	customizations, err := s.customizations.List(ctx, filter, req)
	if err != nil {
		return paging.Model[ProductCustomizationResponse]{}, apperror.Wrap(err)
	}
	total, err := s.customizations.Count(ctx, filter)
	if err != nil {
		return paging.Model[ProductCustomizationResponse]{}, apperror.Wrap(err)
	}

	return paging.Map(paging.New(req, total, customizations), toCustomizationResponse), nil
}
