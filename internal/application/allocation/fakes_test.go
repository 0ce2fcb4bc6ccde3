package allocation

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/shared"
	"github.com/tubetrade/backend/internal/domain/trade"
)

// In-memory repositories backing the service tests. Find returns copies and
// Save writes copies back, so the fake transaction scope can snapshot and
// restore state the way a rolled-back database transaction would.

type fakeStockLotRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]inventory.StockLot
}

func newFakeStockLotRepo() *fakeStockLotRepo {
	return &fakeStockLotRepo{lots: make(map[uuid.UUID]inventory.StockLot)}
}

func (r *fakeStockLotRepo) put(lot *inventory.StockLot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = *lot
}

func (r *fakeStockLotRepo) get(id uuid.UUID) inventory.StockLot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lots[id]
}

func (r *fakeStockLotRepo) snapshot() map[uuid.UUID]inventory.StockLot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]inventory.StockLot, len(r.lots))
	for k, v := range r.lots {
		out[k] = v
	}
	return out
}

func (r *fakeStockLotRepo) restore(snap map[uuid.UUID]inventory.StockLot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots = snap
}

func (r *fakeStockLotRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &lot, nil
}

func (r *fakeStockLotRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*inventory.StockLot, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeStockLotRepo) FindReservableByProductAndSize(_ context.Context, productName, sizeLabel string) ([]inventory.StockLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.StockLot
	for _, lot := range r.lots {
		if lot.ProductName == productName && lot.SizeLabel == sizeLabel &&
			lot.IsReservable() && lot.HasUnclaimedQuantity() {
			out = append(out, lot)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.Before(out[j].ReceivedAt) })
	return out, nil
}

func (r *fakeStockLotRepo) Save(_ context.Context, lot *inventory.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = *lot
	return nil
}

var _ inventory.StockLotRepository = (*fakeStockLotRepo)(nil)

// failingStockLotRepo fails every read; used to prove the FIFO advisory is
// never fatal.
type failingStockLotRepo struct{ *fakeStockLotRepo }

func (r *failingStockLotRepo) FindReservableByProductAndSize(context.Context, string, string) ([]inventory.StockLot, error) {
	return nil, shared.NewDomainError("INTERNAL_ERROR", "stock query failed")
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]inventory.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]inventory.Reservation)}
}

func (r *fakeReservationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reservations)
}

func (r *fakeReservationRepo) snapshot() map[uuid.UUID]inventory.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]inventory.Reservation, len(r.reservations))
	for k, v := range r.reservations {
		out[k] = v
	}
	return out
}

func (r *fakeReservationRepo) restore(snap map[uuid.UUID]inventory.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations = snap
}

func (r *fakeReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &res, nil
}

func (r *fakeReservationRepo) FindActiveByOrderLine(_ context.Context, orderLineID uuid.UUID) ([]inventory.Reservation, error) {
	return r.filter(func(res *inventory.Reservation) bool {
		return res.OrderLineID == orderLineID && res.IsActive()
	}), nil
}

func (r *fakeReservationRepo) FindActiveByOrderAndLot(_ context.Context, orderID, stockLotID uuid.UUID) ([]inventory.Reservation, error) {
	return r.filter(func(res *inventory.Reservation) bool {
		return res.OrderID == orderID && res.StockLotID == stockLotID && res.IsActive()
	}), nil
}

func (r *fakeReservationRepo) FindActiveByStockLot(_ context.Context, stockLotID uuid.UUID) ([]inventory.Reservation, error) {
	return r.filter(func(res *inventory.Reservation) bool {
		return res.StockLotID == stockLotID && res.IsActive()
	}), nil
}

func (r *fakeReservationRepo) FindByOrder(_ context.Context, orderID uuid.UUID) ([]inventory.Reservation, error) {
	return r.filter(func(res *inventory.Reservation) bool {
		return res.OrderID == orderID
	}), nil
}

func (r *fakeReservationRepo) Create(_ context.Context, reservation *inventory.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reservations[reservation.ID]; exists {
		return shared.ErrAlreadyExists
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *fakeReservationRepo) Save(_ context.Context, reservation *inventory.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reservations[reservation.ID]; !exists {
		return shared.ErrNotFound
	}
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *fakeReservationRepo) filter(keep func(*inventory.Reservation) bool) []inventory.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.Reservation
	for _, res := range r.reservations {
		res := res
		if keep(&res) {
			out = append(out, res)
		}
	}
	return out
}

var _ inventory.ReservationRepository = (*fakeReservationRepo)(nil)

type fakeSalesOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]trade.SalesOrder
}

func newFakeSalesOrderRepo() *fakeSalesOrderRepo {
	return &fakeSalesOrderRepo{orders: make(map[uuid.UUID]trade.SalesOrder)}
}

func copyOrder(order *trade.SalesOrder) trade.SalesOrder {
	out := *order
	out.Lines = append([]trade.OrderLine(nil), order.Lines...)
	return out
}

func (r *fakeSalesOrderRepo) put(order *trade.SalesOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = copyOrder(order)
}

func (r *fakeSalesOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := copyOrder(&order)
	return &out, nil
}

func (r *fakeSalesOrderRepo) FindByOrderLine(_ context.Context, orderLineID uuid.UUID) (*trade.SalesOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		for idx := range order.Lines {
			if order.Lines[idx].ID == orderLineID {
				out := copyOrder(&order)
				return &out, nil
			}
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeSalesOrderRepo) Save(_ context.Context, order *trade.SalesOrder) error {
	r.put(order)
	return nil
}

func (r *fakeSalesOrderRepo) SaveWithLock(_ context.Context, order *trade.SalesOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != order.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	r.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *fakeSalesOrderRepo) SaveLine(_ context.Context, line *trade.OrderLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[line.OrderID]
	if !ok {
		return shared.ErrNotFound
	}
	for idx := range order.Lines {
		if order.Lines[idx].ID == line.ID {
			order.Lines[idx] = *line
			r.orders[line.OrderID] = order
			return nil
		}
	}
	return shared.ErrNotFound
}

var _ trade.SalesOrderRepository = (*fakeSalesOrderRepo)(nil)

// fakeScope snapshots all stores before running and restores them on error,
// mirroring transaction rollback. Execute holds a mutex for its duration,
// standing in for the exclusive row lock the real scope takes.
type fakeScope struct {
	mu           sync.Mutex
	lots         *fakeStockLotRepo
	reservations *fakeReservationRepo
	orders       *fakeSalesOrderRepo
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lotSnap := s.lots.snapshot()
	resSnap := s.reservations.snapshot()
	if err := fn(s); err != nil {
		s.lots.restore(lotSnap)
		s.reservations.restore(resSnap)
		return err
	}
	return nil
}

func (s *fakeScope) StockLots() inventory.StockLotRepository       { return s.lots }
func (s *fakeScope) Reservations() inventory.ReservationRepository { return s.reservations }
func (s *fakeScope) SalesOrders() trade.SalesOrderRepository       { return s.orders }

var _ TransactionScope = (*fakeScope)(nil)

// denyAllAuthorizer rejects every action.
type denyAllAuthorizer struct{}

func (denyAllAuthorizer) Authorize(context.Context, uuid.UUID, string) error {
	return shared.ErrUnauthorized
}
