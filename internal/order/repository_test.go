package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"lokamart-be/internal/inventory"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder() *Order {
	return &Order{
		ID:          uuid.New(),
		UserID:      7,
		Subtotal:    100,
		ShippingFee: 10,
		Tax:         5,
		Discount:    15,
		Total:       100,
		Currency:    "IDR",
		Status:      StatusPending,
		Address: ShippingAddress{
			FullName:   "Budi Santoso",
			Address1:   "Jl. Merdeka 1",
			City:       "Jakarta",
			PostalCode: "10110",
			Country:    "ID",
		},
		Items: []Item{
			{ProductID: "prod-1", VariantSKU: "sku-a", Title: "Kopi Gayo", UnitPrice: 50, Quantity: 4, Subtotal: 200},
		},
	}
}

func TestRepository_CreateOrderTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity, reserved").
			WithArgs("prod-1", "sku-a").
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "reserved"}).AddRow(10, 0))
		mock.ExpectExec("UPDATE inventory").
			WithArgs("prod-1", "sku-a", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO orders").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM carts WHERE user_id = \\$1").
			WithArgs(o.UserID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateOrderTx(context.Background(), o)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UntrackedProductSkipsReservation", func(t *testing.T) {
		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity, reserved").
			WithArgs("prod-1", "sku-a").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectExec("INSERT INTO orders").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO order_items").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec("DELETE FROM carts").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.CreateOrderTx(context.Background(), o)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStockRollsBack", func(t *testing.T) {
		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity, reserved").
			WithArgs("prod-1", "sku-a").
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "reserved"}).AddRow(10, 7))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(context.Background(), o)
		var sErr *inventory.StockError
		assert.ErrorAs(t, err, &sErr)
		assert.Equal(t, 4, sErr.Requested)
		assert.Equal(t, 3, sErr.Available)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertFailureRollsBack", func(t *testing.T) {
		o := testOrder()

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT quantity, reserved").
			WillReturnRows(sqlmock.NewRows([]string{"quantity", "reserved"}).AddRow(10, 0))
		mock.ExpectExec("UPDATE inventory").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO orders").
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		err := repo.CreateOrderTx(context.Background(), o)
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		orderRows := sqlmock.NewRows([]string{
			"id", "user_id", "subtotal", "shipping_fee", "tax", "discount", "total_amount",
			"currency", "status", "payment_ref",
			"ship_full_name", "ship_address1", "ship_address2", "ship_city",
			"ship_postal_code", "ship_country", "ship_phone",
			"created_at", "updated_at",
		}).AddRow(
			orderID, 7, 100, 10, 5, 15, 100,
			"IDR", "PENDING", nil,
			"Budi Santoso", "Jl. Merdeka 1", nil, "Jakarta",
			"10110", "ID", nil,
			time.Now(), time.Now(),
		)
		mock.ExpectQuery("FROM orders").
			WithArgs(orderID).
			WillReturnRows(orderRows)

		itemRows := sqlmock.NewRows([]string{
			"id", "order_id", "product_id", "variant_sku", "title", "unit_price", "quantity", "subtotal",
		}).AddRow(1, orderID.String(), "prod-1", "sku-a", "Kopi Gayo", 50, 2, 100)
		mock.ExpectQuery("FROM order_items").
			WithArgs(orderID).
			WillReturnRows(itemRows)

		o, err := repo.GetByID(context.Background(), orderID)
		assert.NoError(t, err)
		assert.Equal(t, orderID, o.ID)
		assert.Equal(t, StatusPending, o.Status)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "prod-1", o.Items[0].ProductID)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("FROM orders").
			WithArgs(orderID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), orderID)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_Fetch(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	cols := []string{
		"id", "user_id", "subtotal", "shipping_fee", "tax", "discount",
		"total_amount", "currency", "status", "created_at", "updated_at",
	}

	t.Run("FilterByUserAndStatus", func(t *testing.T) {
		userID := uint(7)
		status := StatusPaid

		rows := sqlmock.NewRows(cols).
			AddRow(uuid.New(), 7, 100, 0, 0, 0, 100, "IDR", "PAID", time.Now(), time.Now())

		mock.ExpectQuery("AND o.user_id = \\$1 AND o.status = \\$2").
			WithArgs(userID, status, int32(20), int32(0)).
			WillReturnRows(rows)

		orders, err := repo.Fetch(context.Background(), Filter{UserID: &userID, Status: &status}, 20, 0)
		assert.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, StatusPaid, orders[0].Status)
	})

	t.Run("NoFilter", func(t *testing.T) {
		mock.ExpectQuery("ORDER BY o.created_at DESC LIMIT \\$1 OFFSET \\$2").
			WithArgs(int32(20), int32(0)).
			WillReturnRows(sqlmock.NewRows(cols))

		orders, err := repo.Fetch(context.Background(), Filter{}, 20, 0)
		assert.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	orderID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ref := "inv-ext-123"
		mock.ExpectExec("UPDATE orders").
			WithArgs(StatusPaid, &ref, orderID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), orderID, StatusPending, StatusPaid, &ref)
		assert.NoError(t, err)
	})

	t.Run("StaleFromStatus", func(t *testing.T) {
		mock.ExpectExec("UPDATE orders").
			WithArgs(StatusPaid, nil, orderID, StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), orderID, StatusPending, StatusPaid, nil)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})
}
