package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusConflict    = errors.New("order status changed concurrently")
)

// ValidationError carries the field that failed request validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PriceError rejects an order line whose submitted unit price no longer
// matches the catalog.
type PriceError struct {
	ProductID  string
	VariantSKU string
	Submitted  int64
	Current    int64
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("price changed for product %s: submitted %d, current %d",
		e.ProductID, e.Submitted, e.Current)
}
