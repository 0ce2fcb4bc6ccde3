package fulfillment

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/tubetrade/backend/internal/domain/inventory"
	"github.com/tubetrade/backend/internal/domain/sequence"
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

func (r *fakeStockLotRepo) FindReservableByProductAndSize(context.Context, string, string) ([]inventory.StockLot, error) {
	return nil, nil
}

func (r *fakeStockLotRepo) Save(_ context.Context, lot *inventory.StockLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = *lot
	return nil
}

var _ inventory.StockLotRepository = (*fakeStockLotRepo)(nil)

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]inventory.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]inventory.Reservation)}
}

func (r *fakeReservationRepo) put(res *inventory.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reservations[res.ID] = *res
}

func (r *fakeReservationRepo) get(id uuid.UUID) inventory.Reservation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reservations[id]
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
	r.put(reservation)
	return nil
}

func (r *fakeReservationRepo) Save(_ context.Context, reservation *inventory.Reservation) error {
	r.put(reservation)
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

func (r *fakeSalesOrderRepo) get(id uuid.UUID) trade.SalesOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id]
}

func (r *fakeSalesOrderRepo) snapshot() map[uuid.UUID]trade.SalesOrder {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]trade.SalesOrder, len(r.orders))
	for k, v := range r.orders {
		out[k] = copyOrder(&v)
	}
	return out
}

func (r *fakeSalesOrderRepo) restore(snap map[uuid.UUID]trade.SalesOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = snap
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

type fakePackingListRepo struct {
	mu    sync.Mutex
	lists map[uuid.UUID]trade.PackingList
}

func newFakePackingListRepo() *fakePackingListRepo {
	return &fakePackingListRepo{lists: make(map[uuid.UUID]trade.PackingList)}
}

func copyList(list *trade.PackingList) trade.PackingList {
	out := *list
	out.Entries = append([]trade.PackingListEntry(nil), list.Entries...)
	return out
}

func (r *fakePackingListRepo) put(list *trade.PackingList) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[list.ID] = copyList(list)
}

func (r *fakePackingListRepo) get(id uuid.UUID) trade.PackingList {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lists[id]
}

func (r *fakePackingListRepo) snapshot() map[uuid.UUID]trade.PackingList {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]trade.PackingList, len(r.lists))
	for k, v := range r.lists {
		out[k] = copyList(&v)
	}
	return out
}

func (r *fakePackingListRepo) restore(snap map[uuid.UUID]trade.PackingList) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = snap
}

func (r *fakePackingListRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.PackingList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.lists[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := copyList(&list)
	return &out, nil
}

func (r *fakePackingListRepo) Save(_ context.Context, list *trade.PackingList) error {
	r.put(list)
	return nil
}

var _ trade.PackingListRepository = (*fakePackingListRepo)(nil)

type fakeDispatchNoteRepo struct {
	mu    sync.Mutex
	notes map[uuid.UUID]trade.DispatchNote
}

func newFakeDispatchNoteRepo() *fakeDispatchNoteRepo {
	return &fakeDispatchNoteRepo{notes: make(map[uuid.UUID]trade.DispatchNote)}
}

func (r *fakeDispatchNoteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

func (r *fakeDispatchNoteRepo) snapshot() map[uuid.UUID]trade.DispatchNote {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[uuid.UUID]trade.DispatchNote, len(r.notes))
	for k, v := range r.notes {
		out[k] = v
	}
	return out
}

func (r *fakeDispatchNoteRepo) restore(snap map[uuid.UUID]trade.DispatchNote) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = snap
}

func (r *fakeDispatchNoteRepo) FindByID(_ context.Context, id uuid.UUID) (*trade.DispatchNote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	note, ok := r.notes[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &note, nil
}

func (r *fakeDispatchNoteRepo) Create(_ context.Context, note *trade.DispatchNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.notes[note.ID]; exists {
		return shared.ErrAlreadyExists
	}
	r.notes[note.ID] = *note
	return nil
}

var _ trade.DispatchNoteRepository = (*fakeDispatchNoteRepo)(nil)

// fakeSequenceRepo is deliberately not rolled back by the fake scope: an
// aborted dispatch burns its counter value, leaving a gap.
type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
}

func (r *fakeSequenceRepo) Next(_ context.Context, docType sequence.DocumentType, fiscalYear string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := docType.String() + "/" + fiscalYear
	r.counters[key]++
	return r.counters[key], nil
}

func (r *fakeSequenceRepo) Current(_ context.Context, docType sequence.DocumentType, fiscalYear string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[docType.String()+"/"+fiscalYear], nil
}

var _ sequence.Repository = (*fakeSequenceRepo)(nil)

// fakeScope snapshots all stores before running and restores them on error,
// mirroring transaction rollback.
type fakeScope struct {
	lots         *fakeStockLotRepo
	reservations *fakeReservationRepo
	orders       *fakeSalesOrderRepo
	packingLists *fakePackingListRepo
	notes        *fakeDispatchNoteRepo
	sequences    *fakeSequenceRepo
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	lotSnap := s.lots.snapshot()
	resSnap := s.reservations.snapshot()
	orderSnap := s.orders.snapshot()
	listSnap := s.packingLists.snapshot()
	noteSnap := s.notes.snapshot()
	if err := fn(s); err != nil {
		s.lots.restore(lotSnap)
		s.reservations.restore(resSnap)
		s.orders.restore(orderSnap)
		s.packingLists.restore(listSnap)
		s.notes.restore(noteSnap)
		return err
	}
	return nil
}

func (s *fakeScope) StockLots() inventory.StockLotRepository       { return s.lots }
func (s *fakeScope) Reservations() inventory.ReservationRepository { return s.reservations }
func (s *fakeScope) SalesOrders() trade.SalesOrderRepository       { return s.orders }
func (s *fakeScope) PackingLists() trade.PackingListRepository     { return s.packingLists }
func (s *fakeScope) DispatchNotes() trade.DispatchNoteRepository   { return s.notes }
func (s *fakeScope) Sequences() sequence.Repository                { return s.sequences }

var _ TransactionScope = (*fakeScope)(nil)
