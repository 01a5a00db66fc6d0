package inventory

import (
	"context"

	"lokamart-be/internal/logger"

	"go.uber.org/zap"
)

// Service defines stock administration and availability checks.
type Service interface {
	Get(ctx context.Context, productID, variantSKU string) (*Record, error)
	ListByProduct(ctx context.Context, productID string) ([]Record, error)
	Upsert(ctx context.Context, rec Record) (*Record, error)
	Delete(ctx context.Context, productID, variantSKU string) error

	// CheckAvailability reports whether qty units can be purchased.
	// Products without an inventory record are always purchasable.
	CheckAvailability(ctx context.Context, productID, variantSKU string, qty int) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, productID, variantSKU string) (*Record, error) {
	return s.repo.Get(ctx, productID, variantSKU)
}

func (s *service) ListByProduct(ctx context.Context, productID string) ([]Record, error) {
	return s.repo.ListByProduct(ctx, productID)
}

func (s *service) Upsert(ctx context.Context, rec Record) (*Record, error) {
	if rec.Quantity < 0 || rec.Reserved < 0 {
		return nil, ErrInvalidQuantity
	}
	if rec.Reserved > rec.Quantity {
		return nil, ErrReservedExceeds
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("inventory record upserted",
		zap.String("product_id", rec.ProductID),
		zap.String("variant_sku", rec.VariantSKU),
		zap.Int("quantity", rec.Quantity),
	)

	return s.repo.Get(ctx, rec.ProductID, rec.VariantSKU)
}

func (s *service) Delete(ctx context.Context, productID, variantSKU string) error {
	return s.repo.Delete(ctx, productID, variantSKU)
}

func (s *service) CheckAvailability(ctx context.Context, productID, variantSKU string, qty int) (bool, error) {
	if qty <= 0 {
		return false, ErrInvalidQuantity
	}

	rec, err := s.repo.Get(ctx, productID, variantSKU)
	if err == ErrRecordNotFound {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return rec.Available() >= qty, nil
}
