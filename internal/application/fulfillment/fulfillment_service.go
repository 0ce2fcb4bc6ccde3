package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/sequence"
	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/shared/valueobject"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// Actions checked against the access-control collaborator
const (
	ActionDispatch = "trade.dispatch"
	ActionReadSO   = "trade.read"
)

// Service finalizes dispatches. Finalization is the only place reservations
// become DISPATCHED, lots settle their final status, order lines accrue
// dispatched quantity and the order status cascade runs; all of it commits in
// one transaction together with the freshly minted dispatch number.
type Service struct {
	scope      TransactionScope
	orders     trade.SalesOrderRepository
	authorizer shared.Authorizer
	audit      shared.AuditSink
	events     shared.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
	dnPrefix   string
}

// NewService creates a new fulfillment Service
func NewService(scope TransactionScope, orders trade.SalesOrderRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		scope:      scope,
		orders:     orders,
		authorizer: shared.AllowAllAuthorizer{},
		logger:     logger,
		now:        time.Now,
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

// SetClock overrides the time source. Used by tests to pin the fiscal year.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetDispatchNotePrefix overrides the printed dispatch-number prefix. The
// counter row stays keyed by document type regardless of the prefix.
func (s *Service) SetDispatchNotePrefix(prefix string) {
	s.dnPrefix = prefix
}

func (s *Service) dispatchNotePrefix() string {
	if s.dnPrefix != "" {
		return s.dnPrefix
	}
	return sequence.DocumentTypeDispatchNote.Prefix()
}

// FinalizeDispatch turns a committed packing list into a dispatch note.
// For every packing entry it finds the active reservations tying the lot to
// this order, marks them dispatched, accrues the dispatched quantity on their
// order lines, settles each lot's status and finally recomputes the line and
// order statuses from the full reservation ledger. Any inconsistency between
// the packing list and the ledger aborts the whole transaction; no entry is
// ever skipped.
func (s *Service) FinalizeDispatch(ctx context.Context, req FinalizeDispatchRequest) (*DispatchNoteResponse, error) {
	if err := s.authorizer.Authorize(ctx, req.ActorID, ActionDispatch); err != nil {
		return nil, err
	}

	var (
		note        *trade.DispatchNote
		order       *trade.SalesOrder
		statusAfter trade.OrderStatus
		events      []shared.DomainEvent
		before      SalesOrderResponse
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		list, err := repos.PackingLists().FindByID(ctx, req.PackingListID)
		if err != nil {
			return err
		}
		if list.IsDispatched() {
			return shared.NewDomainError("INVALID_STATE",
				"Packing list "+list.ID.String()+" was already dispatched")
		}
		if list.OrderID != req.OrderID {
			return shared.NewDomainError("FULFILLMENT_INTEGRITY",
				"Packing list "+list.ID.String()+" does not belong to order "+req.OrderID.String())
		}
		if len(list.Entries) == 0 {
			return shared.NewDomainError("INVALID_STATE", "Packing list has no entries to dispatch")
		}

		order, err = repos.SalesOrders().FindByID(ctx, req.OrderID)
		if err != nil {
			return err
		}
		before = ToSalesOrderResponse(order)

		dispatchedAt := s.now()
		fiscalYear := sequence.FiscalYearKey(dispatchedAt)
		counter, err := repos.Sequences().Next(ctx, sequence.DocumentTypeDispatchNote, fiscalYear)
		if err != nil {
			return err
		}
		number := sequence.FormatNumberWithPrefix(s.dispatchNotePrefix(), fiscalYear, counter)

		note, err = trade.NewDispatchNote(number, list.ID, order.ID, trade.ShipmentMeta{
			VehicleNumber: req.VehicleNumber,
			Carrier:       req.Carrier,
			Destination:   req.Destination,
		})
		if err != nil {
			return err
		}
		if err := repos.DispatchNotes().Create(ctx, note); err != nil {
			return err
		}
		if err := list.LinkDispatchNote(note.ID); err != nil {
			return err
		}
		if err := repos.PackingLists().Save(ctx, list); err != nil {
			return err
		}

		for idx := range list.Entries {
			entry := &list.Entries[idx]
			lotEvents, err := s.dispatchEntry(ctx, repos, order, entry)
			if err != nil {
				return err
			}
			events = append(events, lotEvents...)
		}

		allReservations, err := repos.Reservations().FindByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		orderStatus, lineStatuses := trade.RecomputeStatuses(order, toReservationViews(allReservations))
		for idx := range order.Lines {
			line := &order.Lines[idx]
			if status, ok := lineStatuses[line.ID]; ok {
				if err := line.ApplyStatus(status); err != nil {
					return err
				}
			}
			if err := repos.SalesOrders().SaveLine(ctx, line); err != nil {
				return err
			}
		}
		statusAfter = orderStatus
		if orderStatus == order.Status {
			return nil
		}
		order.ApplyStatus(orderStatus)
		return repos.SalesOrders().SaveWithLock(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, append(events, collectEvents(note, order)...))
	s.recordAudit(ctx, req.ActorID, order, before)

	response := ToDispatchNoteResponse(note, statusAfter)
	return &response, nil
}

// GetOrder returns a sales order with its lines. Read-only.
func (s *Service) GetOrder(ctx context.Context, actorID, orderID uuid.UUID) (*SalesOrderResponse, error) {
	if err := s.authorizer.Authorize(ctx, actorID, ActionReadSO); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToSalesOrderResponse(order)
	return &response, nil
}

// dispatchEntry settles one packing entry: its reservations, its order lines
// and its lot. The entry quantity must match the quantity the ledger holds
// for this (order, lot) pair; anything else is an integrity violation.
func (s *Service) dispatchEntry(
	ctx context.Context,
	repos TransactionalRepositories,
	order *trade.SalesOrder,
	entry *trade.PackingListEntry,
) ([]shared.DomainEvent, error) {
	reservations, err := repos.Reservations().FindActiveByOrderAndLot(ctx, order.ID, entry.StockLotID)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, shared.NewDomainError("FULFILLMENT_INTEGRITY",
			"No active reservation ties lot "+entry.StockLotID.String()+" to order "+order.OrderNumber)
	}

	reservedTotal := reservations[0].Quantity
	for idx := 1; idx < len(reservations); idx++ {
		reservedTotal = reservedTotal.Add(reservations[idx].Quantity)
	}
	if !valueobject.ApproxEqual(reservedTotal, entry.Quantity) {
		return nil, shared.NewDomainError("FULFILLMENT_INTEGRITY",
			"Packing entry for lot "+entry.StockLotID.String()+" carries "+entry.Quantity.String()+
				" but the ledger reserves "+reservedTotal.String())
	}

	var events []shared.DomainEvent
	for idx := range reservations {
		reservation := &reservations[idx]
		line := order.GetLine(reservation.OrderLineID)
		if line == nil {
			return nil, shared.NewDomainError("FULFILLMENT_INTEGRITY",
				"Reservation "+reservation.ID.String()+" references a line missing from order "+order.OrderNumber)
		}
		if err := line.AddDispatched(reservation.Quantity); err != nil {
			return nil, err
		}
		if err := reservation.MarkDispatched(); err != nil {
			return nil, err
		}
		if err := repos.Reservations().Save(ctx, reservation); err != nil {
			return nil, err
		}
		events = append(events, inventory.NewReservationDispatchedEvent(reservation))
	}

	lot, err := repos.StockLots().FindByIDForUpdate(ctx, entry.StockLotID)
	if err != nil {
		return nil, err
	}
	stillActive, err := repos.Reservations().FindActiveByStockLot(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	if err := lot.FinalizeDispatch(len(stillActive) > 0); err != nil {
		return nil, err
	}
	if err := repos.StockLots().Save(ctx, lot); err != nil {
		return nil, err
	}
	events = append(events, lot.GetDomainEvents()...)
	lot.ClearDomainEvents()
	return events, nil
}

func toReservationViews(reservations []inventory.Reservation) []trade.ReservationView {
	views := make([]trade.ReservationView, 0, len(reservations))
	for idx := range reservations {
		r := &reservations[idx]
		views = append(views, trade.ReservationView{
			OrderLineID: r.OrderLineID,
			Quantity:    r.Quantity,
			Dispatched:  r.Status == inventory.ReservationStatusDispatched,
			Released:    r.Status == inventory.ReservationStatusReleased,
		})
	}
	return views
}

func collectEvents(note *trade.DispatchNote, order *trade.SalesOrder) []shared.DomainEvent {
	events := append(note.GetDomainEvents(), order.GetDomainEvents()...)
	note.ClearDomainEvents()
	order.ClearDomainEvents()
	return events
}

func (s *Service) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.events == nil || len(events) == 0 {
		return
	}
	_ = s.events.Publish(ctx, events...)
}

func (s *Service) recordAudit(ctx context.Context, actor uuid.UUID, order *trade.SalesOrder, before SalesOrderResponse) {
	if s.audit == nil {
		return
	}
	s.audit.RecordAudit(ctx, shared.AuditRecord{
		Actor:      actor,
		Action:     ActionDispatch,
		EntityType: "SalesOrder",
		EntityID:   order.ID,
		Before:     before,
		After:      ToSalesOrderResponse(order),
	})
}
