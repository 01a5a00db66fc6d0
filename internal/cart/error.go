package cart

import "errors"

var (
	ErrUserNotAuthenticated = errors.New("user not authenticated")
	ErrInvalidQuantity      = errors.New("invalid cart quantity")
	ErrItemNotFound         = errors.New("cart item not found")
	ErrCartEmpty            = errors.New("cart is empty")
	ErrInsufficientStock    = errors.New("insufficient stock")
)
