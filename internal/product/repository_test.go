package product

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO products").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO variants").
			WithArgs("kaos-m", "prod-1", "Medium", int64(75)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Create(context.Background(), &Product{
			ID:     "prod-1",
			Title:  "Kaos",
			Price:  75,
			Status: StatusActive,
			Variants: []Variant{
				{SKU: "kaos-m", ProductID: "prod-1", Name: "Medium", Price: 75},
			},
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("VariantInsertFailureRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO products").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO variants").
			WillReturnError(errors.New("duplicate sku"))
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &Product{
			ID:       "prod-1",
			Title:    "Kaos",
			Variants: []Variant{{SKU: "kaos-m"}},
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		productRows := sqlmock.NewRows([]string{"id", "title", "description", "price", "status", "created_at", "updated_at"}).
			AddRow("prod-1", "Kaos", nil, 75, "ACTIVE", time.Now(), time.Now())
		mock.ExpectQuery("FROM products").
			WithArgs("prod-1").
			WillReturnRows(productRows)

		variantRows := sqlmock.NewRows([]string{"sku", "product_id", "name", "price"}).
			AddRow("kaos-m", "prod-1", "Medium", 75)
		mock.ExpectQuery("FROM variants").
			WithArgs("prod-1").
			WillReturnRows(variantRows)

		p, err := repo.GetByID(context.Background(), "prod-1")
		assert.NoError(t, err)
		assert.Equal(t, "Kaos", p.Title)
		require.Len(t, p.Variants, 1)
		assert.Equal(t, "kaos-m", p.Variants[0].SKU)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("FROM products").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "prod-x")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	cols := []string{"id", "title", "description", "price", "status", "created_at", "updated_at"}

	t.Run("ActiveWithSearch", func(t *testing.T) {
		rows := sqlmock.NewRows(cols).
			AddRow("prod-1", "Kopi Gayo", nil, 50, "ACTIVE", time.Now(), time.Now())

		mock.ExpectQuery("AND status = \\$1 AND title ILIKE \\$2").
			WithArgs(StatusActive, "%kopi%", int32(20), int32(0)).
			WillReturnRows(rows)

		products, err := repo.List(context.Background(), ListOptions{
			Search:     "kopi",
			OnlyActive: true,
			Limit:      20,
		})
		assert.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Kopi Gayo", products[0].Title)
	})
}

func TestRepository_PriceFor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("ProductPrice", func(t *testing.T) {
		mock.ExpectQuery("SELECT price FROM products").
			WithArgs("prod-1", StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(50))

		price, err := repo.PriceFor(context.Background(), "prod-1", "")
		assert.NoError(t, err)
		assert.Equal(t, int64(50), price)
	})

	t.Run("VariantPrice", func(t *testing.T) {
		mock.ExpectQuery("SELECT v.price").
			WithArgs("prod-1", "kaos-m", StatusActive).
			WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow(75))

		price, err := repo.PriceFor(context.Background(), "prod-1", "kaos-m")
		assert.NoError(t, err)
		assert.Equal(t, int64(75), price)
	})

	t.Run("DisabledProductNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT price FROM products").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.PriceFor(context.Background(), "prod-disabled", "")
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("UnknownVariant", func(t *testing.T) {
		mock.ExpectQuery("SELECT v.price").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.PriceFor(context.Background(), "prod-1", "no-such-sku")
		assert.ErrorIs(t, err, ErrVariantNotFound)
	})
}

func TestRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE products").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &Product{ID: "prod-x", Title: "X"})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}
