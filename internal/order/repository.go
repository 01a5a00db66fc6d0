package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lokamart-be/internal/inventory"
	"lokamart-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	// CreateOrderTx persists the order, reserves inventory for every line
	// and clears the user's cart in one transaction. Any stock shortfall
	// rolls the whole placement back.
	CreateOrderTx(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error)
	Fetch(ctx context.Context, filter Filter, limit, offset int32) ([]*Order, error)

	// UpdateStatus flips the status only while the stored status still
	// equals from, so concurrent transitions cannot both win. A non-nil
	// paymentRef is stored alongside (e.g. the gateway reference on PAID).
	UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to Status, paymentRef *string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID.String()),
		zap.Int("item_count", len(o.Items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Lock and reserve every tracked line first. The row lock couples the
	// availability check to the increment, so two concurrent placements
	// cannot both pass the check on the same record.
	for _, item := range o.Items {
		var quantity, reserved int
		err := tx.QueryRowContext(ctx, `
			SELECT quantity, reserved
			FROM inventory
			WHERE product_id = $1 AND variant_sku = $2
			FOR UPDATE
		`, item.ProductID, item.VariantSKU).Scan(&quantity, &reserved)

		if errors.Is(err, sql.ErrNoRows) {
			// Untracked product: always purchasable.
			continue
		}
		if err != nil {
			return err
		}

		if quantity-reserved < item.Quantity {
			log.Warn("insufficient stock",
				zap.String("product_id", item.ProductID),
				zap.String("variant_sku", item.VariantSKU),
				zap.Int("requested", item.Quantity),
				zap.Int("available", quantity-reserved),
			)
			return &inventory.StockError{
				ProductID:  item.ProductID,
				VariantSKU: item.VariantSKU,
				Requested:  item.Quantity,
				Available:  quantity - reserved,
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE inventory
			SET reserved = reserved + $3, updated_at = NOW()
			WHERE product_id = $1 AND variant_sku = $2
		`, item.ProductID, item.VariantSKU, item.Quantity)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, subtotal, shipping_fee, tax, discount, total_amount,
			currency, status, payment_ref,
			ship_full_name, ship_address1, ship_address2, ship_city,
			ship_postal_code, ship_country, ship_phone,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,NOW(),NOW())
	`,
		o.ID, o.UserID, o.Subtotal, o.ShippingFee, o.Tax, o.Discount, o.Total,
		o.Currency, o.Status, o.PaymentRef,
		o.Address.FullName, o.Address.Address1, o.Address.Address2, o.Address.City,
		o.Address.PostalCode, o.Address.Country, o.Address.Phone,
	)
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, variant_sku, title, unit_price, quantity, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			o.ID, item.ProductID, item.VariantSKU, item.Title,
			item.UnitPrice, item.Quantity, item.Subtotal,
		)
		if err != nil {
			return err
		}
	}

	// The cart has become an order; drop it.
	if _, err = tx.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, o.UserID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order transaction committed")

	return nil
}

func (r *repository) GetByID(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id, subtotal, shipping_fee, tax, discount, total_amount,
			currency, status, payment_ref,
			ship_full_name, ship_address1, ship_address2, ship_city,
			ship_postal_code, ship_country, ship_phone,
			created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.Subtotal, &o.ShippingFee, &o.Tax, &o.Discount, &o.Total,
		&o.Currency, &o.Status, &o.PaymentRef,
		&o.Address.FullName, &o.Address.Address1, &o.Address.Address2, &o.Address.City,
		&o.Address.PostalCode, &o.Address.Country, &o.Address.Phone,
		&o.CreatedAt, &o.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, variant_sku, title, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.VariantSKU,
			&item.Title, &item.UnitPrice, &item.Quantity, &item.Subtotal,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}

	return &o, rows.Err()
}

func (r *repository) Fetch(ctx context.Context, filter Filter, limit, offset int32) ([]*Order, error) {
	query := `
		SELECT
			o.id, o.user_id, o.subtotal, o.shipping_fee, o.tax, o.discount,
			o.total_amount, o.currency, o.status, o.created_at, o.updated_at
		FROM orders o
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if filter.UserID != nil {
		query += fmt.Sprintf(" AND o.user_id = $%d", argIndex)
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Subtotal, &o.ShippingFee, &o.Tax, &o.Discount,
			&o.Total, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}

	return orders, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, from, to Status, paymentRef *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, payment_ref = COALESCE($2, payment_ref), updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, to, paymentRef, orderID, from)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrStatusConflict
	}
	return nil
}
