package order

import "fmt"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
	StatusRefunded  Status = "REFUNDED"
)

// InventoryEffect is what a status transition does to the reserved stock of
// each order line.
type InventoryEffect int

const (
	// EffectNone leaves inventory untouched.
	EffectNone InventoryEffect = iota
	// EffectRestore releases the hold and credits quantity back
	// (cancellation).
	EffectRestore
	// EffectFinalize releases the hold only; the goods have shipped
	// (delivery).
	EffectFinalize
)

// validNext maps every legal transition to its inventory effect. Everything
// absent from the table is rejected, so a cancelled order can never be
// delivered and no transition can run twice.
var validNext = map[Status]map[Status]InventoryEffect{
	StatusPending: {
		StatusPaid:      EffectNone,
		StatusShipped:   EffectNone,
		StatusDelivered: EffectFinalize,
		StatusCancelled: EffectRestore,
	},
	StatusPaid: {
		StatusShipped:   EffectNone,
		StatusDelivered: EffectFinalize,
		StatusCancelled: EffectRestore,
		StatusRefunded:  EffectNone,
	},
	StatusShipped: {
		StatusDelivered: EffectFinalize,
		StatusCancelled: EffectRestore,
	},
	StatusDelivered: {
		StatusRefunded: EffectNone,
	},
	StatusCancelled: {
		StatusRefunded: EffectNone,
	},
	StatusRefunded: {},
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
}

// Transition validates from → to and returns the inventory effect to apply.
func Transition(from, to Status) (InventoryEffect, error) {
	effect, ok := validNext[from][to]
	if !ok {
		return EffectNone, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return effect, nil
}
