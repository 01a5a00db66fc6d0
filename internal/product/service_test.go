package product

import (
	"context"
	"errors"
	"testing"

	"lokamart-be/internal/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, productID string) (*Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockRepository) PriceFor(ctx context.Context, productID, variantSKU string) (int64, error) {
	args := m.Called(ctx, productID, variantSKU)
	return args.Get(0).(int64), args.Error(1)
}

// MockInventoryRepository is a mock for the inventory repository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Get(ctx context.Context, productID, variantSKU string) (*inventory.Record, error) {
	args := m.Called(ctx, productID, variantSKU)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Record), args.Error(1)
}

func (m *MockInventoryRepository) ListByProduct(ctx context.Context, productID string) ([]inventory.Record, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Record), args.Error(1)
}

func (m *MockInventoryRepository) Upsert(ctx context.Context, rec inventory.Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockInventoryRepository) Delete(ctx context.Context, productID, variantSKU string) error {
	args := m.Called(ctx, productID, variantSKU)
	return args.Error(0)
}

func (m *MockInventoryRepository) DeleteByProduct(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockInventoryRepository) Reserve(ctx context.Context, productID, variantSKU string, qty int) error {
	args := m.Called(ctx, productID, variantSKU, qty)
	return args.Error(0)
}

func (m *MockInventoryRepository) Restore(ctx context.Context, productID, variantSKU string, qty int) error {
	args := m.Called(ctx, productID, variantSKU, qty)
	return args.Error(0)
}

func (m *MockInventoryRepository) Finalize(ctx context.Context, productID, variantSKU string, qty int) error {
	args := m.Called(ctx, productID, variantSKU, qty)
	return args.Error(0)
}

func intPtr(v int) *int { return &v }

func TestService_Create(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		invRepo := new(MockInventoryRepository)
		svc := NewService(repo, invRepo)

		repo.On("Create", mock.Anything, mock.AnythingOfType("*product.Product")).Return(nil)
		repo.On("GetByID", mock.Anything, mock.AnythingOfType("string")).
			Return(&Product{Title: "Kopi Gayo", Status: StatusActive}, nil)

		p, err := svc.Create(context.Background(), NewProductInput{Title: "Kopi Gayo", Price: 50})
		assert.NoError(t, err)
		assert.Equal(t, "Kopi Gayo", p.Title)
		invRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("SeedsInventoryFromStockFigures", func(t *testing.T) {
		repo := new(MockRepository)
		invRepo := new(MockInventoryRepository)
		svc := NewService(repo, invRepo)

		repo.On("Create", mock.Anything, mock.Anything).Return(nil)
		repo.On("GetByID", mock.Anything, mock.Anything).Return(&Product{Title: "Kaos"}, nil)
		invRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(rec inventory.Record) bool {
			return rec.VariantSKU == "" && rec.Quantity == 10
		})).Return(nil)
		invRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(rec inventory.Record) bool {
			return rec.VariantSKU == "kaos-m" && rec.Quantity == 5
		})).Return(nil)

		_, err := svc.Create(context.Background(), NewProductInput{
			Title: "Kaos",
			Price: 75,
			Stock: intPtr(10),
			Variants: []NewVariantInput{
				{SKU: "kaos-m", Name: "Medium", Price: 75, Stock: intPtr(5)},
			},
		})
		assert.NoError(t, err)
		invRepo.AssertExpectations(t)
	})

	t.Run("EmptyTitle", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockInventoryRepository))

		_, err := svc.Create(context.Background(), NewProductInput{Price: 50})
		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("NegativePrice", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockInventoryRepository))

		_, err := svc.Create(context.Background(), NewProductInput{Title: "Kopi", Price: -1})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestService_Update(t *testing.T) {
	t.Run("PartialFields", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockInventoryRepository))

		repo.On("GetByID", mock.Anything, "prod-1").
			Return(&Product{ID: "prod-1", Title: "Old", Price: 50, Status: StatusActive}, nil).Once()
		repo.On("Update", mock.Anything, mock.MatchedBy(func(p *Product) bool {
			return p.Title == "New" && p.Price == 50
		})).Return(nil)
		repo.On("GetByID", mock.Anything, "prod-1").
			Return(&Product{ID: "prod-1", Title: "New", Price: 50, Status: StatusActive}, nil)

		title := "New"
		p, err := svc.Update(context.Background(), "prod-1", UpdateProductInput{Title: &title})
		assert.NoError(t, err)
		assert.Equal(t, "New", p.Title)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockInventoryRepository))

		repo.On("GetByID", mock.Anything, "prod-1").Return(&Product{ID: "prod-1", Title: "X"}, nil)

		bad := "ARCHIVED"
		_, err := svc.Update(context.Background(), "prod-1", UpdateProductInput{Status: &bad})
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockInventoryRepository))

		repo.On("GetByID", mock.Anything, "prod-x").Return(nil, ErrProductNotFound)

		_, err := svc.Update(context.Background(), "prod-x", UpdateProductInput{})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	t.Run("RemovesInventoryToo", func(t *testing.T) {
		repo := new(MockRepository)
		invRepo := new(MockInventoryRepository)
		svc := NewService(repo, invRepo)

		repo.On("Delete", mock.Anything, "prod-1").Return(nil)
		invRepo.On("DeleteByProduct", mock.Anything, "prod-1").Return(nil)

		err := svc.Delete(context.Background(), "prod-1")
		assert.NoError(t, err)
		invRepo.AssertExpectations(t)
	})

	t.Run("InventoryCleanupFailureIsNotFatal", func(t *testing.T) {
		repo := new(MockRepository)
		invRepo := new(MockInventoryRepository)
		svc := NewService(repo, invRepo)

		repo.On("Delete", mock.Anything, "prod-1").Return(nil)
		invRepo.On("DeleteByProduct", mock.Anything, "prod-1").Return(errors.New("db error"))

		err := svc.Delete(context.Background(), "prod-1")
		assert.NoError(t, err)
	})
}

func TestService_List(t *testing.T) {
	t.Run("DefaultLimit", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockInventoryRepository))

		repo.On("List", mock.Anything, ListOptions{Limit: 20}).Return([]*Product{}, nil)

		_, err := svc.List(context.Background(), ListOptions{})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("LimitClamped", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockInventoryRepository))

		repo.On("List", mock.Anything, ListOptions{Limit: 100}).Return([]*Product{}, nil)

		_, err := svc.List(context.Background(), ListOptions{Limit: 999})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}
