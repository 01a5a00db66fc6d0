package product

import "time"

const (
	StatusActive  = "ACTIVE"
	StatusDisable = "DISABLED"
)

// Variant is one purchasable configuration of a product, identified by SKU.
type Variant struct {
	SKU       string `json:"sku"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
}

type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Status      string    `json:"status"`
	Variants    []Variant `json:"variants,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProductInput carries optional stock figures that seed the matching
// inventory records.
type NewProductInput struct {
	Title       string
	Description *string
	Price       int64
	Stock       *int
	Variants    []NewVariantInput
}

type NewVariantInput struct {
	SKU   string
	Name  string
	Price int64
	Stock *int
}

type UpdateProductInput struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	Status      *string `json:"status,omitempty"`
	Stock       *int    `json:"stock,omitempty"`
}
