package trade

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tubetrade/backend/internal/domain/shared/valueobject"
)

// ReservationView is the slice of the reservation ledger the status cascade
// needs. The fulfillment orchestrator maps inventory reservations into this
// shape so the cascade stays a pure function of the trade context.
type ReservationView struct {
	OrderLineID uuid.UUID
	Quantity    decimal.Decimal
	Dispatched  bool // reached DISPATCHED
	Released    bool // reached RELEASED
}

// RecomputeLineStatus derives a line's status from its dispatch progress.
// FULLY_DISPATCHED when dispatched-so-far covers the ordered quantity within
// tolerance, PARTIALLY_DISPATCHED when something but not everything shipped,
// OPEN otherwise.
func RecomputeLineStatus(orderedQuantity, dispatchedQuantity decimal.Decimal) LineStatus {
	if valueobject.Covers(dispatchedQuantity, orderedQuantity) {
		return LineStatusFullyDispatched
	}
	if dispatchedQuantity.GreaterThan(decimal.Zero) {
		return LineStatusPartiallyDispatched
	}
	return LineStatusOpen
}

// RecomputeStatuses derives the order status and every line status in one
// pass, making the whole cascade testable away from persistence.
//
// The order is FULLY_DISPATCHED when at least one reservation was ever made
// and every non-released reservation is DISPATCHED; it is
// PARTIALLY_DISPATCHED when any reservation has been dispatched but some are
// still outstanding. An order that never had a reservation keeps its prior
// status: dispatch never force-closes it.
func RecomputeStatuses(order *SalesOrder, reservations []ReservationView) (OrderStatus, map[uuid.UUID]LineStatus) {
	lineStatuses := make(map[uuid.UUID]LineStatus, len(order.Lines))
	for idx := range order.Lines {
		line := &order.Lines[idx]
		lineStatuses[line.ID] = RecomputeLineStatus(line.OrderedQuantity, line.DispatchedQuantity)
	}

	var considered, dispatched int
	for _, r := range reservations {
		if r.Released {
			continue
		}
		considered++
		if r.Dispatched {
			dispatched++
		}
	}

	if considered == 0 {
		return order.Status, lineStatuses
	}
	if dispatched == considered {
		return OrderStatusFullyDispatched, lineStatuses
	}
	if dispatched > 0 {
		return OrderStatusPartiallyDispatched, lineStatuses
	}
	return order.Status, lineStatuses
}

// SumActiveReserved totals the quantity of active (not dispatched, not
// released) reservations against one order line.
func SumActiveReserved(reservations []ReservationView, orderLineID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, r := range reservations {
		if r.OrderLineID == orderLineID && !r.Dispatched && !r.Released {
			total = total.Add(r.Quantity)
		}
	}
	return total
}
