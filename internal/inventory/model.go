package inventory

import "time"

// Record tracks stock for a product or for one of its variants.
// An empty VariantSKU means the product has no variants and the record
// tracks the whole product.
type Record struct {
	ProductID  string    `json:"productId"`
	VariantSKU string    `json:"variantSku,omitempty"`
	Quantity   int       `json:"quantity"`
	Reserved   int       `json:"reserved"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Available is the stock actually purchasable right now.
func (r Record) Available() int {
	return r.Quantity - r.Reserved
}
