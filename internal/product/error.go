package product

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrInvalidTitle    = errors.New("product title is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStatus   = errors.New("invalid product status")
)
