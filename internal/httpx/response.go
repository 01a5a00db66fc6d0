package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"lokamart-be/internal/cart"
	"lokamart-be/internal/inventory"
	"lokamart-be/internal/logger"
	"lokamart-be/internal/order"
	"lokamart-be/internal/product"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single funnel that maps typed domain errors to HTTP
// statuses. Anything unrecognized becomes a 500 with no internal detail
// leaked to the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var vErr *order.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": map[string]string{vErr.Field: vErr.Message},
		})
		return
	}

	var stockErr *inventory.StockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      stockErr.Error(),
			"productId":  stockErr.ProductID,
			"variantSku": stockErr.VariantSKU,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
		return
	}

	var priceErr *order.PriceError
	if errors.As(err, &priceErr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      priceErr.Error(),
			"productId":  priceErr.ProductID,
			"variantSku": priceErr.VariantSKU,
			"current":    priceErr.Current,
		})
		return
	}

	switch {
	case errors.Is(err, order.ErrUnauthorized),
		errors.Is(err, cart.ErrUserNotAuthenticated):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})

	case errors.Is(err, order.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrVariantNotFound),
		errors.Is(err, inventory.ErrRecordNotFound),
		errors.Is(err, cart.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})

	case errors.Is(err, order.ErrStatusConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})

	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrReservedExceeds),
		errors.Is(err, product.ErrInvalidTitle),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStatus),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, cart.ErrCartEmpty):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})

	default:
		logger.FromCtx(ctx).Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
