package inventory

import (
	"context"
	"database/sql"
	"errors"

	"lokamart-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context, productID, variantSKU string) (*Record, error)
	ListByProduct(ctx context.Context, productID string) ([]Record, error)
	Upsert(ctx context.Context, rec Record) error
	Delete(ctx context.Context, productID, variantSKU string) error
	DeleteByProduct(ctx context.Context, productID string) error

	// Reserve allocates stock to an order. It is a single conditional
	// update: it succeeds only while quantity - reserved >= qty, so a
	// concurrent check can never oversell. A missing record means the
	// product is untracked and always purchasable.
	Reserve(ctx context.Context, productID, variantSKU string, qty int) error

	// Restore undoes a reservation after cancellation: the hold is
	// released and quantity is credited back by the same amount.
	Restore(ctx context.Context, productID, variantSKU string, qty int) error

	// Finalize releases the hold after delivery without touching
	// quantity; the goods have left the warehouse.
	Finalize(ctx context.Context, productID, variantSKU string, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, productID, variantSKU string) (*Record, error) {
	var rec Record
	err := r.db.QueryRowContext(ctx, `
		SELECT product_id, variant_sku, quantity, reserved, updated_at
		FROM inventory
		WHERE product_id = $1 AND variant_sku = $2
	`, productID, variantSKU).
		Scan(&rec.ProductID, &rec.VariantSKU, &rec.Quantity, &rec.Reserved, &rec.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *repository) ListByProduct(ctx context.Context, productID string) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, variant_sku, quantity, reserved, updated_at
		FROM inventory
		WHERE product_id = $1
		ORDER BY variant_sku
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ProductID, &rec.VariantSKU, &rec.Quantity, &rec.Reserved, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}

func (r *repository) Upsert(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inventory (product_id, variant_sku, quantity, reserved, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, variant_sku)
		DO UPDATE SET quantity = $3, updated_at = NOW()
	`, rec.ProductID, rec.VariantSKU, rec.Quantity, rec.Reserved)

	return err
}

func (r *repository) Delete(ctx context.Context, productID, variantSKU string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM inventory
		WHERE product_id = $1 AND variant_sku = $2
	`, productID, variantSKU)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteByProduct(ctx context.Context, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM inventory WHERE product_id = $1
	`, productID)
	return err
}

func (r *repository) Reserve(ctx context.Context, productID, variantSKU string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory
		SET reserved = reserved + $3, updated_at = NOW()
		WHERE product_id = $1 AND variant_sku = $2
		  AND quantity - reserved >= $3
	`, productID, variantSKU, qty)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected > 0 {
		return nil
	}

	// Either the record does not exist (untracked product, purchasable
	// without limit) or there is not enough stock left.
	rec, err := r.Get(ctx, productID, variantSKU)
	if errors.Is(err, ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	return &StockError{
		ProductID:  productID,
		VariantSKU: variantSKU,
		Requested:  qty,
		Available:  rec.Available(),
	}
}

func (r *repository) Restore(ctx context.Context, productID, variantSKU string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory
		SET reserved = GREATEST(reserved - $3, 0),
		    quantity = quantity + $3,
		    updated_at = NOW()
		WHERE product_id = $1 AND variant_sku = $2
	`, productID, variantSKU, qty)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		logger.FromCtx(ctx).Warn("restore skipped, inventory record missing",
			zap.String("product_id", productID),
			zap.String("variant_sku", variantSKU),
		)
	}
	return nil
}

func (r *repository) Finalize(ctx context.Context, productID, variantSKU string, qty int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE inventory
		SET reserved = GREATEST(reserved - $3, 0),
		    updated_at = NOW()
		WHERE product_id = $1 AND variant_sku = $2
	`, productID, variantSKU, qty)
	if err != nil {
		return err
	}

	if affected, _ := res.RowsAffected(); affected == 0 {
		logger.FromCtx(ctx).Warn("finalize skipped, inventory record missing",
			zap.String("product_id", productID),
			zap.String("variant_sku", variantSKU),
		)
	}
	return nil
}
