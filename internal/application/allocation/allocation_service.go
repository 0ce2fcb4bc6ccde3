package allocation

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/shared/valueobject"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// Actions checked against the access-control collaborator
const (
	ActionReserve = "inventory.reserve"
	ActionRelease = "inventory.release"
	ActionRead    = "inventory.read"
)

// Service implements stock reservation and release. Reserve and Release are
// exact inverses on lot quantity: reserving moves quantity from the lot into
// the reservation ledger, releasing moves the same amount back. Both run
// inside a transaction scope holding an exclusive row lock on the lot, so the
// lot's unclaimed quantity plus the ledger always conserves what was received.
type Service struct {
	scope      TransactionScope
	lots       inventory.StockLotRepository
	orders     trade.SalesOrderRepository
	advisor    *inventory.FIFOAdvisor
	authorizer shared.Authorizer
	audit      shared.AuditSink
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewService creates a new allocation Service
func NewService(
	scope TransactionScope,
	lots inventory.StockLotRepository,
	orders trade.SalesOrderRepository,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:      scope,
		lots:       lots,
		orders:     orders,
		advisor:    inventory.NewFIFOAdvisor(),
		authorizer: shared.AllowAllAuthorizer{},
		logger:     logger,
	}
}

// SetAuthorizer attaches the access-control collaborator
func (s *Service) SetAuthorizer(authorizer shared.Authorizer) {
	if authorizer != nil {
		s.authorizer = authorizer
	}
}

// SetAuditSink attaches the audit collaborator
func (s *Service) SetAuditSink(sink shared.AuditSink) {
	s.audit = sink
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *Service) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// Reserve claims part of a stock lot for an order line. The order's remaining
// demand is checked against active reservations, the lot is loaded under an
// exclusive row lock, validated, decremented, and the reservation row written,
// all in one transaction. The FIFO check runs after commit and only ever adds
// warnings to the result.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResult, error) {
	if err := s.authorizer.Authorize(ctx, req.ActorID, ActionReserve); err != nil {
		return nil, err
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reservation quantity must be positive")
	}
	if req.Pieces < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Piece count cannot be negative")
	}

	var (
		reservation *inventory.Reservation
		lot         *inventory.StockLot
		lotBefore   StockLotResponse
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.SalesOrders().FindByOrderLine(ctx, req.OrderLineID)
		if err != nil {
			return err
		}
		line := order.GetLine(req.OrderLineID)
		if line == nil {
			return shared.NewDomainError("NOT_FOUND", "Order line not found")
		}
		if !order.POAccepted {
			return shared.NewDomainError("INVALID_STATE",
				"Order "+order.OrderNumber+" has no accepted purchase order; stock cannot be reserved")
		}

		active, err := repos.Reservations().FindActiveByOrderLine(ctx, req.OrderLineID)
		if err != nil {
			return err
		}
		reserved := decimal.Zero
		for idx := range active {
			reserved = reserved.Add(active[idx].Quantity)
		}
		remaining := line.RemainingDemand(reserved)
		if !valueobject.FitsWithin(req.Quantity, remaining) {
			return shared.NewDomainError("INSUFFICIENT_REMAINING_DEMAND",
				"Line has "+remaining.String()+" remaining demand, requested "+req.Quantity.String())
		}

		lot, err = repos.StockLots().FindByIDForUpdate(ctx, req.StockLotID)
		if err != nil {
			return err
		}
		lotBefore = ToStockLotResponse(lot)

		reservation, err = inventory.NewReservation(line.ID, order.ID, lot.ID, req.Quantity, req.Pieces)
		if err != nil {
			return err
		}
		if err := lot.Claim(req.Quantity, order.ID); err != nil {
			return err
		}

		if err := repos.Reservations().Create(ctx, reservation); err != nil {
			return err
		}
		return repos.StockLots().Save(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	s.publishLotEvents(ctx, lot, inventory.NewReservationCreatedEvent(reservation))
	s.recordAudit(ctx, req.ActorID, ActionReserve, "StockLot", lot.ID, lotBefore, ToStockLotResponse(lot))

	result := &ReserveResult{
		Reservation: ToReservationResponse(reservation),
		Warnings:    s.fifoWarnings(ctx, lot),
	}
	return result, nil
}

// Release hands a reservation's quantity back to its lot. The reservation must
// belong to the given order and still be active. Runs under the same lot lock
// discipline as Reserve.
func (s *Service) Release(ctx context.Context, req ReleaseRequest) (*ReservationResponse, error) {
	if err := s.authorizer.Authorize(ctx, req.ActorID, ActionRelease); err != nil {
		return nil, err
	}

	var (
		reservation *inventory.Reservation
		lot         *inventory.StockLot
		lotBefore   StockLotResponse
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		reservation, err = repos.Reservations().FindByID(ctx, req.ReservationID)
		if err != nil {
			return err
		}
		if !reservation.BelongsToOrder(req.OrderID) {
			return shared.NewDomainError("RESERVATION_MISMATCH",
				"Reservation "+reservation.ID.String()+" was not made for order "+req.OrderID.String())
		}
		if !reservation.IsActive() {
			return shared.NewDomainError("INVALID_RESERVATION_STATE",
				"Reservation is "+reservation.Status.String()+" and cannot be released")
		}

		lot, err = repos.StockLots().FindByIDForUpdate(ctx, reservation.StockLotID)
		if err != nil {
			return err
		}
		lotBefore = ToStockLotResponse(lot)

		if err := lot.Restore(reservation.Quantity); err != nil {
			return err
		}
		if err := reservation.Release(); err != nil {
			return err
		}

		if err := repos.Reservations().Save(ctx, reservation); err != nil {
			return err
		}
		return repos.StockLots().Save(ctx, lot)
	})
	if err != nil {
		return nil, err
	}

	s.publishLotEvents(ctx, lot, inventory.NewReservationReleasedEvent(reservation))
	s.recordAudit(ctx, req.ActorID, ActionRelease, "StockLot", lot.ID, lotBefore, ToStockLotResponse(lot))

	response := ToReservationResponse(reservation)
	return &response, nil
}

// AvailableStockFor lists the reservable lots matching an order line's product
// and size, oldest receipt first. Read-only, no locks.
func (s *Service) AvailableStockFor(ctx context.Context, actorID, orderLineID uuid.UUID) ([]StockLotResponse, error) {
	if err := s.authorizer.Authorize(ctx, actorID, ActionRead); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByOrderLine(ctx, orderLineID)
	if err != nil {
		return nil, err
	}
	line := order.GetLine(orderLineID)
	if line == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Order line not found")
	}

	lots, err := s.lots.FindReservableByProductAndSize(ctx, line.ProductName, line.SizeLabel)
	if err != nil {
		return nil, err
	}
	responses := make([]StockLotResponse, 0, len(lots))
	for idx := range lots {
		responses = append(responses, ToStockLotResponse(&lots[idx]))
	}
	return responses, nil
}

// GetStockLot returns a single stock lot. Read-only, no locks.
func (s *Service) GetStockLot(ctx context.Context, actorID, lotID uuid.UUID) (*StockLotResponse, error) {
	if err := s.authorizer.Authorize(ctx, actorID, ActionRead); err != nil {
		return nil, err
	}
	lot, err := s.lots.FindByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	response := ToStockLotResponse(lot)
	return &response, nil
}

// fifoWarnings runs the FIFO advisory after the reservation committed.
// Failures here only cost the warnings, never the reservation.
func (s *Service) fifoWarnings(ctx context.Context, chosen *inventory.StockLot) []string {
	available, err := s.lots.FindReservableByProductAndSize(ctx, chosen.ProductName, chosen.SizeLabel)
	if err != nil {
		s.logger.Warn("fifo advisory skipped",
			zap.String("stock_lot_id", chosen.ID.String()),
			zap.Error(err))
		return nil
	}
	warnings := s.advisor.CheckLot(chosen, available)
	for _, w := range warnings {
		s.logger.Info("fifo advisory", zap.String("warning", w))
	}
	return warnings
}

func (s *Service) publishLotEvents(ctx context.Context, lot *inventory.StockLot, extra ...shared.DomainEvent) {
	if s.events == nil {
		return
	}
	events := append(lot.GetDomainEvents(), extra...)
	if len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
	lot.ClearDomainEvents()
}

func (s *Service) recordAudit(ctx context.Context, actor uuid.UUID, action, entityType string, entityID uuid.UUID, before, after interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.RecordAudit(ctx, shared.AuditRecord{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
	})
}
