package order

import (
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uint            `json:"userId"`
	Items       []Item          `json:"items"`
	Subtotal    int64           `json:"subtotal"`
	ShippingFee int64           `json:"shipping"`
	Tax         int64           `json:"tax"`
	Discount    int64           `json:"discount"`
	Total       int64           `json:"total"`
	Currency    string          `json:"currency"`
	Status      Status          `json:"status"`
	Address     ShippingAddress `json:"shippingAddress"`
	PaymentRef  *string         `json:"paymentRef,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Item is one order line. Title and unit price are copied from the catalog
// when the order is placed and never re-read afterwards.
type Item struct {
	ID         uint   `json:"id"`
	OrderID    string `json:"orderId"`
	ProductID  string `json:"productId"`
	VariantSKU string `json:"variantSku,omitempty"`
	Title      string `json:"title"`
	UnitPrice  int64  `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
	Subtotal   int64  `json:"subtotal"`
}

type ShippingAddress struct {
	FullName   string  `json:"fullName"`
	Address1   string  `json:"address1"`
	Address2   *string `json:"address2,omitempty"`
	City       string  `json:"city"`
	PostalCode string  `json:"postalCode"`
	Country    string  `json:"country"`
	Phone      *string `json:"phone,omitempty"`
}

type ItemInput struct {
	ProductID  string `json:"product"`
	VariantSKU string `json:"variantSku,omitempty"`
	Title      string `json:"title"`
	UnitPrice  int64  `json:"unitPrice"`
	Quantity   int    `json:"quantity"`
}

type PlaceOrderInput struct {
	Items       []ItemInput     `json:"items"`
	Address     ShippingAddress `json:"shippingAddress"`
	ShippingFee int64           `json:"shipping"`
	Tax         int64           `json:"tax"`
	Discount    int64           `json:"discount"`
	Currency    string          `json:"currency"`
}

type Filter struct {
	UserID *uint
	Status *Status
}

// EffectResult records the outcome of one per-item inventory side effect
// applied during a status transition. Failures are collected, not fatal.
type EffectResult struct {
	ProductID  string `json:"productId"`
	VariantSKU string `json:"variantSku,omitempty"`
	Quantity   int    `json:"quantity"`
	Applied    bool   `json:"applied"`
	Err        error  `json:"-"`
}
