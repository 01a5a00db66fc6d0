package cart

import (
	"context"

	"lokamart-be/internal/inventory"
)

// Service defines the business logic for carts.
type Service interface {
	GetCart(ctx context.Context, userID uint) ([]Item, error)
	AddToCart(ctx context.Context, params AddItemParams) ([]Item, error)
	UpdateQuantity(ctx context.Context, params UpdateItemParams) error
	RemoveFromCart(ctx context.Context, userID uint, productID, variantSKU string) error
	ClearCart(ctx context.Context, userID uint) error
}

type service struct {
	repo    Repository
	invRepo inventory.Repository
}

func NewService(repo Repository, invRepo inventory.Repository) Service {
	return &service{repo: repo, invRepo: invRepo}
}

func (s *service) GetCart(ctx context.Context, userID uint) ([]Item, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	return s.repo.ItemsByUser(ctx, userID)
}

func (s *service) AddToCart(ctx context.Context, params AddItemParams) ([]Item, error) {
	if params.UserID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	// Current cart quantity counts against available stock.
	existing, err := s.repo.ItemsByUser(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	finalQty := params.Quantity
	for _, it := range existing {
		if it.ProductID == params.ProductID && it.VariantSKU == params.VariantSKU {
			finalQty += it.Quantity
		}
	}

	rec, err := s.invRepo.Get(ctx, params.ProductID, params.VariantSKU)
	if err != nil && err != inventory.ErrRecordNotFound {
		return nil, err
	}
	if rec != nil && rec.Available() < finalQty {
		return nil, ErrInsufficientStock
	}

	if err := s.repo.Add(ctx, params); err != nil {
		return nil, err
	}

	return s.repo.ItemsByUser(ctx, params.UserID)
}

func (s *service) UpdateQuantity(ctx context.Context, params UpdateItemParams) error {
	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}

	if params.Quantity <= 0 {
		// Zero or negative removes the item.
		return s.repo.Remove(ctx, params.UserID, params.ProductID, params.VariantSKU)
	}

	return s.repo.UpdateQuantity(ctx, params)
}

func (s *service) RemoveFromCart(ctx context.Context, userID uint, productID, variantSKU string) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Remove(ctx, userID, productID, variantSKU)
}

func (s *service) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.ClearUser(ctx, userID)
}
