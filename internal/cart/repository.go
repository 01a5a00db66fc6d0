package cart

import (
	"context"
	"database/sql"
)

type Repository interface {
	// ItemsByUser returns the user's cart joined with live catalog titles
	// and prices; this is the snapshot order placement consumes.
	ItemsByUser(ctx context.Context, userID uint) ([]Item, error)
	Add(ctx context.Context, params AddItemParams) error
	UpdateQuantity(ctx context.Context, params UpdateItemParams) error
	Remove(ctx context.Context, userID uint, productID, variantSKU string) error
	ClearUser(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ItemsByUser(ctx context.Context, userID uint) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id, c.user_id, c.product_id, c.variant_sku, c.quantity,
			c.created_at, c.updated_at,
			p.title,
			COALESCE(v.price, p.price)
		FROM carts c
		JOIN products p ON p.id = c.product_id
		LEFT JOIN variants v ON v.product_id = c.product_id AND v.sku = c.variant_sku
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(
			&it.ID, &it.UserID, &it.ProductID, &it.VariantSKU, &it.Quantity,
			&it.CreatedAt, &it.UpdatedAt,
			&it.Title, &it.UnitPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

func (r *repository) Add(ctx context.Context, params AddItemParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, product_id, variant_sku, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id, variant_sku)
		DO UPDATE SET quantity = carts.quantity + $4, updated_at = NOW()
	`, params.UserID, params.ProductID, params.VariantSKU, params.Quantity)

	return err
}

func (r *repository) UpdateQuantity(ctx context.Context, params UpdateItemParams) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3 AND variant_sku = $4
	`, params.Quantity, params.UserID, params.ProductID, params.VariantSKU)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) Remove(ctx context.Context, userID uint, productID, variantSKU string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = $2 AND variant_sku = $3
	`, userID, productID, variantSKU)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *repository) ClearUser(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}
