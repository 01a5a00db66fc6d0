package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID string) (*Product, error)
	List(ctx context.Context, opts ListOptions) ([]*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID string) error

	// PriceFor returns the authoritative unit price for a product or one
	// of its variants. Order placement validates client-submitted prices
	// against this value.
	PriceFor(ctx context.Context, productID, variantSKU string) (int64, error)
}

type ListOptions struct {
	Search        string
	OnlyActive    bool
	Limit, Offset int32
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, title, description, price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, p.ID, p.Title, p.Description, p.Price, p.Status)
	if err != nil {
		return err
	}

	for _, v := range p.Variants {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO variants (sku, product_id, name, price)
			VALUES ($1, $2, $3, $4)
		`, v.SKU, p.ID, v.Name, v.Price)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, productID string) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, description, price, status, created_at, updated_at
		FROM products
		WHERE id = $1
	`, productID).
		Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Status, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT sku, product_id, name, price
		FROM variants
		WHERE product_id = $1
		ORDER BY sku
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.SKU, &v.ProductID, &v.Name, &v.Price); err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}

	return &p, rows.Err()
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*Product, error) {
	query := `
		SELECT id, title, description, price, status, created_at, updated_at
		FROM products
		WHERE 1=1
	`
	args := []any{}
	argIndex := 1

	if opts.OnlyActive {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, StatusActive)
		argIndex++
	}

	if opts.Search != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argIndex)
		args = append(args, "%"+opts.Search+"%")
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}

	return products, rows.Err()
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET title = $1, description = $2, price = $3, status = $4, updated_at = NOW()
		WHERE id = $5
	`, p.Title, p.Description, p.Price, p.Status, p.ID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, productID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE product_id = $1`, productID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}

	return tx.Commit()
}

func (r *repository) PriceFor(ctx context.Context, productID, variantSKU string) (int64, error) {
	var price int64

	if variantSKU == "" {
		err := r.db.QueryRowContext(ctx, `
			SELECT price FROM products WHERE id = $1 AND status = $2
		`, productID, StatusActive).Scan(&price)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrProductNotFound
		}
		return price, err
	}

	err := r.db.QueryRowContext(ctx, `
		SELECT v.price
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.product_id = $1 AND v.sku = $2 AND p.status = $3
	`, productID, variantSKU, StatusActive).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrVariantNotFound
	}
	return price, err
}
