package cart

import "time"

type Item struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"userId"`
	ProductID  string    `json:"productId"`
	VariantSKU string    `json:"variantSku,omitempty"`
	Quantity   int       `json:"quantity"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// Denormalized from the catalog on read.
	Title     string `json:"title"`
	UnitPrice int64  `json:"unitPrice"`
}

type AddItemParams struct {
	UserID     uint
	ProductID  string
	VariantSKU string
	Quantity   int
}

type UpdateItemParams struct {
	UserID     uint
	ProductID  string
	VariantSKU string
	Quantity   int
}
