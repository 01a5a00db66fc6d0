package product

import (
	"context"

	"lokamart-be/internal/inventory"
	"lokamart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	GetByID(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Update(ctx context.Context, productID string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, productID string) error
}

type service struct {
	repo    Repository
	invRepo inventory.Repository
}

func NewService(repo Repository, invRepo inventory.Repository) Service {
	return &service{repo: repo, invRepo: invRepo}
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
	)

	if input.Title == "" {
		return nil, ErrInvalidTitle
	}
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}
	for _, v := range input.Variants {
		if v.SKU == "" || v.Price < 0 {
			return nil, ErrInvalidPrice
		}
	}

	p := &Product{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Status:      StatusActive,
	}
	for _, v := range input.Variants {
		p.Variants = append(p.Variants, Variant{
			SKU:       v.SKU,
			ProductID: p.ID,
			Name:      v.Name,
			Price:     v.Price,
		})
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	// Seed inventory records for every stock figure supplied.
	if input.Stock != nil {
		if err := s.invRepo.Upsert(ctx, inventory.Record{
			ProductID: p.ID,
			Quantity:  *input.Stock,
		}); err != nil {
			log.Error("failed to seed product inventory", zap.Error(err))
		}
	}
	for _, v := range input.Variants {
		if v.Stock == nil {
			continue
		}
		if err := s.invRepo.Upsert(ctx, inventory.Record{
			ProductID:  p.ID,
			VariantSKU: v.SKU,
			Quantity:   *v.Stock,
		}); err != nil {
			log.Error("failed to seed variant inventory",
				zap.String("variant_sku", v.SKU),
				zap.Error(err),
			)
		}
	}

	log.Info("product created", zap.String("product_id", p.ID))

	return s.repo.GetByID(ctx, p.ID)
}

func (s *service) GetByID(ctx context.Context, productID string) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

func (s *service) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	} else if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	return s.repo.List(ctx, opts)
}

func (s *service) Update(ctx context.Context, productID string, input UpdateProductInput) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrInvalidTitle
		}
		p.Title = *input.Title
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		p.Price = *input.Price
	}
	if input.Status != nil {
		if *input.Status != StatusActive && *input.Status != StatusDisable {
			return nil, ErrInvalidStatus
		}
		p.Status = *input.Status
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	if input.Stock != nil {
		if err := s.invRepo.Upsert(ctx, inventory.Record{
			ProductID: p.ID,
			Quantity:  *input.Stock,
		}); err != nil {
			logger.FromCtx(ctx).Error("failed to update product inventory",
				zap.String("product_id", p.ID),
				zap.Error(err),
			)
		}
	}

	return s.repo.GetByID(ctx, productID)
}

func (s *service) Delete(ctx context.Context, productID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteProduct"),
		zap.String("product_id", productID),
	)

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}

	// Inventory cleanup is best-effort; a failure here must not undo the
	// product deletion.
	if err := s.invRepo.DeleteByProduct(ctx, productID); err != nil {
		log.Error("failed to delete inventory records", zap.Error(err))
	}

	log.Info("product deleted")
	return nil
}
