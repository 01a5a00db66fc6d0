package inventory

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound  = errors.New("inventory record not found")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
	ErrReservedExceeds = errors.New("reserved cannot exceed quantity")
)

// StockError identifies the item that failed an availability check.
type StockError struct {
	ProductID  string
	VariantSKU string
	Requested  int
	Available  int
}

func (e *StockError) Error() string {
	if e.VariantSKU != "" {
		return fmt.Sprintf("insufficient stock for product %s (sku %s): requested %d, available %d",
			e.ProductID, e.VariantSKU, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
