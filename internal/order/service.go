package order

import (
	"context"
	"time"

	"lokamart-be/internal/events"
	"lokamart-be/internal/logger"
	"lokamart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCurrency = "IDR"

type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error)
	GetOrders(ctx context.Context, status *Status, limit, page int32) ([]*Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	GetOrderStatus(ctx context.Context, orderID uuid.UUID) (Status, error)
	TransitionStatus(ctx context.Context, orderID uuid.UUID, to Status, paymentRef *string) (*Order, []EffectResult, error)
}

// PriceSource supplies the authoritative current unit price for a line.
type PriceSource interface {
	PriceFor(ctx context.Context, productID, variantSKU string) (int64, error)
}

// InventoryStore applies the per-item side effects of status transitions.
type InventoryStore interface {
	Restore(ctx context.Context, productID, variantSKU string, qty int) error
	Finalize(ctx context.Context, productID, variantSKU string, qty int) error
}

// StatusCache is an optional read cache for status polling.
type StatusCache interface {
	GetStatus(ctx context.Context, orderID string) (string, bool)
	SetStatus(ctx context.Context, orderID, status string)
}

// EventSink is an optional publisher for order lifecycle events.
type EventSink interface {
	Publish(key, value []byte)
}

type service struct {
	repo     Repository
	prices   PriceSource
	inv      InventoryStore
	cache    StatusCache
	sink     EventSink
	producer string
}

// NewService wires the order lifecycle manager. cache and sink may be nil;
// both are best-effort collaborators.
func NewService(repo Repository, prices PriceSource, inv InventoryStore, cache StatusCache, sink EventSink, producerName string) Service {
	return &service{
		repo:     repo,
		prices:   prices,
		inv:      inv,
		cache:    cache,
		sink:     sink,
		producer: producerName,
	}
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, ErrUnauthorized
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.Uint("user_id", userID),
		zap.Int("item_count", len(input.Items)),
	)

	if err := validatePlaceOrder(input); err != nil {
		log.Warn("order rejected by validation", zap.Error(err))
		return nil, err
	}

	// Re-validate every submitted unit price against the catalog; a stale
	// client price never makes it into an order.
	var subtotal int64
	items := make([]Item, 0, len(input.Items))
	for _, in := range input.Items {
		current, err := s.prices.PriceFor(ctx, in.ProductID, in.VariantSKU)
		if err != nil {
			log.Warn("price lookup failed",
				zap.String("product_id", in.ProductID),
				zap.String("variant_sku", in.VariantSKU),
				zap.Error(err),
			)
			return nil, err
		}
		if current != in.UnitPrice {
			return nil, &PriceError{
				ProductID:  in.ProductID,
				VariantSKU: in.VariantSKU,
				Submitted:  in.UnitPrice,
				Current:    current,
			}
		}

		lineSubtotal := in.UnitPrice * int64(in.Quantity)
		subtotal += lineSubtotal

		items = append(items, Item{
			ProductID:  in.ProductID,
			VariantSKU: in.VariantSKU,
			Title:      in.Title,
			UnitPrice:  in.UnitPrice,
			Quantity:   in.Quantity,
			Subtotal:   lineSubtotal,
		})
	}

	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	o := &Order{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       items,
		Subtotal:    subtotal,
		ShippingFee: input.ShippingFee,
		Tax:         input.Tax,
		Discount:    input.Discount,
		Total:       subtotal + input.ShippingFee + input.Tax - input.Discount,
		Currency:    currency,
		Status:      StatusPending,
		Address:     input.Address,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		return nil, err
	}

	log.Info("order placed",
		zap.String("order_id", o.ID.String()),
		zap.Int64("total", o.Total),
	)

	if s.cache != nil {
		s.cache.SetStatus(ctx, o.ID.String(), string(o.Status))
	}
	s.publishCreated(o)

	return o, nil
}

func validatePlaceOrder(input PlaceOrderInput) error {
	if len(input.Items) == 0 {
		return ErrEmptyOrder
	}

	for _, it := range input.Items {
		if it.ProductID == "" {
			return &ValidationError{Field: "items.product", Message: "product reference is required"}
		}
		if it.Title == "" {
			return &ValidationError{Field: "items.title", Message: "title is required"}
		}
		if it.Quantity <= 0 {
			return &ValidationError{Field: "items.quantity", Message: "quantity must be a positive integer"}
		}
		if it.UnitPrice < 0 {
			return &ValidationError{Field: "items.unitPrice", Message: "unit price must not be negative"}
		}
	}

	addr := input.Address
	switch {
	case addr.FullName == "":
		return &ValidationError{Field: "shippingAddress.fullName", Message: "full name is required"}
	case addr.Address1 == "":
		return &ValidationError{Field: "shippingAddress.address1", Message: "address line 1 is required"}
	case addr.City == "":
		return &ValidationError{Field: "shippingAddress.city", Message: "city is required"}
	case addr.PostalCode == "":
		return &ValidationError{Field: "shippingAddress.postalCode", Message: "postal code is required"}
	case addr.Country == "":
		return &ValidationError{Field: "shippingAddress.country", Message: "country is required"}
	}

	if input.ShippingFee < 0 || input.Tax < 0 || input.Discount < 0 {
		return &ValidationError{Field: "pricing", Message: "shipping, tax and discount must not be negative"}
	}

	return nil
}

func (s *service) GetOrders(ctx context.Context, status *Status, limit, page int32) ([]*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, ErrUnauthorized
	}

	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	filter := Filter{Status: status}
	if !utils.IsAdmin(ctx) {
		filter.UserID = &userID
	}

	return s.repo.Fetch(ctx, filter, limit, offset)
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || userID == 0 {
		return nil, ErrUnauthorized
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !utils.IsAdmin(ctx) && o.UserID != userID {
		return nil, ErrForbidden
	}

	return o, nil
}

// GetOrderStatus serves status polling, preferring the cache so repeated
// polls skip the database.
func (s *service) GetOrderStatus(ctx context.Context, orderID uuid.UUID) (Status, error) {
	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		return "", ErrUnauthorized
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetStatus(ctx, orderID.String()); ok {
			return Status(cached), nil
		}
	}

	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		s.cache.SetStatus(ctx, orderID.String(), string(o.Status))
	}
	return o.Status, nil
}

func (s *service) TransitionStatus(ctx context.Context, orderID uuid.UUID, to Status, paymentRef *string) (*Order, []EffectResult, error) {
	if _, ok := utils.GetUserIDFromContext(ctx); !ok {
		return nil, nil, ErrUnauthorized
	}
	if !utils.IsAdmin(ctx) {
		return nil, nil, ErrForbidden
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "TransitionStatus"),
		zap.String("order_id", orderID.String()),
		zap.String("to_status", string(to)),
	)

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	effect, err := Transition(o.Status, to)
	if err != nil {
		return nil, nil, err
	}

	from := o.Status
	if err := s.repo.UpdateStatus(ctx, orderID, from, to, paymentRef); err != nil {
		return nil, nil, err
	}
	o.Status = to
	if paymentRef != nil {
		o.PaymentRef = paymentRef
	}

	// Inventory side effects are applied per line independently; one
	// failed line must not block the rest or undo the status change. The
	// outcomes are collected so the caller can see what actually landed.
	var results []EffectResult
	if effect != EffectNone {
		results = make([]EffectResult, 0, len(o.Items))
		for _, item := range o.Items {
			var effErr error
			switch effect {
			case EffectRestore:
				effErr = s.inv.Restore(ctx, item.ProductID, item.VariantSKU, item.Quantity)
			case EffectFinalize:
				effErr = s.inv.Finalize(ctx, item.ProductID, item.VariantSKU, item.Quantity)
			}

			if effErr != nil {
				log.Error("inventory side effect failed",
					zap.String("product_id", item.ProductID),
					zap.String("variant_sku", item.VariantSKU),
					zap.Int("quantity", item.Quantity),
					zap.Error(effErr),
				)
			}

			results = append(results, EffectResult{
				ProductID:  item.ProductID,
				VariantSKU: item.VariantSKU,
				Quantity:   item.Quantity,
				Applied:    effErr == nil,
				Err:        effErr,
			})
		}
	}

	log.Info("order status transitioned", zap.String("from_status", string(from)))

	if s.cache != nil {
		s.cache.SetStatus(ctx, orderID.String(), string(to))
	}
	s.publishStatusChanged(o, from)

	return o, results, nil
}

func (s *service) publishCreated(o *Order) {
	if s.sink == nil {
		return
	}

	items := make([]events.ItemQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, events.ItemQty{
			ProductID:  it.ProductID,
			VariantSKU: it.VariantSKU,
			Qty:        it.Quantity,
		})
	}

	env := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.producer,
		CorrelationID: o.ID.String(),
		Payload: events.MustMarshal(events.OrderCreatedPayload{
			OrderID:     o.ID.String(),
			UserID:      o.UserID,
			Items:       items,
			TotalAmount: o.Total,
			Currency:    o.Currency,
		}),
	}

	s.sink.Publish(events.PartitionKey(o.ID.String()), events.MustMarshal(env))
}

func (s *service) publishStatusChanged(o *Order, from Status) {
	if s.sink == nil {
		return
	}

	env := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.producer,
		CorrelationID: o.ID.String(),
		Payload: events.MustMarshal(events.OrderStatusChangedPayload{
			OrderID:    o.ID.String(),
			FromStatus: string(from),
			ToStatus:   string(o.Status),
		}),
	}

	s.sink.Publish(events.PartitionKey(o.ID.String()), events.MustMarshal(env))
}
