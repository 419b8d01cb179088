package commands_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// memoryDB is a committed store shared by fake units of work. Writes are staged
// per unit of work and checked against committed versions on commit, which is
// enough to reproduce lost-update races.
type memoryDB struct {
	mu        sync.Mutex
	orders    map[kernel.UUID]order.Snapshot
	quotes    map[kernel.UUID]quote.Snapshot
	vehicles  map[kernel.UUID]*vehicle.Vehicle
	published []kernel.DomainEvent
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		orders:   make(map[kernel.UUID]order.Snapshot),
		quotes:   make(map[kernel.UUID]quote.Snapshot),
		vehicles: make(map[kernel.UUID]*vehicle.Vehicle),
	}
}

func (db *memoryDB) factory() memoryUoWFactory {
	return memoryUoWFactory{db: db}
}

func (db *memoryDB) storedOrder(id kernel.UUID) order.Snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.orders[id]
}

func (db *memoryDB) storedQuote(id kernel.UUID) quote.Snapshot {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.quotes[id]
}

func (db *memoryDB) eventNames() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	names := make([]string, 0, len(db.published))
	for _, e := range db.published {
		names = append(names, e.EventName())
	}
	return names
}

type memoryUoWFactory struct{ db *memoryDB }

func (f memoryUoWFactory) Create() commands.UoW { return newMemoryUoW(f.db) }

type memoryOrderUoWFactory struct{ db *memoryDB }

func (f memoryOrderUoWFactory) Create() commands.OrderUoW { return newMemoryUoW(f.db) }

type memoryQuoteUoWFactory struct{ db *memoryDB }

func (f memoryQuoteUoWFactory) Create() commands.QuoteUoW { return newMemoryUoW(f.db) }

type stagedOrder struct {
	base      int64
	aggregate *order.Order
}

type stagedQuote struct {
	base      int64
	aggregate *quote.Quote
}

type memoryUoW struct {
	db     *memoryDB
	active bool
	orders map[kernel.UUID]stagedOrder
	quotes map[kernel.UUID]stagedQuote
}

func newMemoryUoW(db *memoryDB) *memoryUoW {
	return &memoryUoW{db: db}
}

func (u *memoryUoW) Begin(context.Context) error {
	u.active = true
	u.orders = make(map[kernel.UUID]stagedOrder)
	u.quotes = make(map[kernel.UUID]stagedQuote)
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	u.active = false
	u.orders, u.quotes = nil, nil
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if !u.active {
		return errs.NewValueIsInvalidError("transaction")
	}
	u.db.mu.Lock()
	defer u.db.mu.Unlock()

	for id, s := range u.orders {
		if stored, ok := u.db.orders[id]; ok && stored.Version != s.base {
			return errs.NewConcurrentModificationError("order", id.String(), s.base)
		}
	}
	for id, s := range u.quotes {
		if stored, ok := u.db.quotes[id]; ok && stored.Version != s.base {
			return errs.NewConcurrentModificationError("quote", id.String(), s.base)
		}
	}
	for id, s := range u.orders {
		u.db.orders[id] = s.aggregate.Snapshot()
		u.db.published = append(u.db.published, s.aggregate.PullEvents()...)
	}
	for id, s := range u.quotes {
		u.db.quotes[id] = s.aggregate.Snapshot()
		u.db.published = append(u.db.published, s.aggregate.PullEvents()...)
	}
	u.active = false
	return nil
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository     { return memoryOrderRepo{u} }
func (u *memoryUoW) QuoteRepository() ports.QuoteRepository     { return memoryQuoteRepo{u} }
func (u *memoryUoW) VehicleRepository() ports.VehicleRepository { return memoryVehicleRepo{u} }

type memoryOrderRepo struct{ u *memoryUoW }

func (r memoryOrderRepo) Add(_ context.Context, o *order.Order) error {
	if _, ok := r.u.orders[o.ID()]; ok || r.u.db.storedOrder(o.ID()).Version != 0 {
		return errs.NewConflictError("order", "duplicate id")
	}
	o.AdvanceVersion()
	r.u.orders[o.ID()] = stagedOrder{base: 0, aggregate: o}
	return nil
}

func (r memoryOrderRepo) Update(_ context.Context, o *order.Order) error {
	current := r.u.db.storedOrder(o.ID()).Version
	base := current
	if staged, ok := r.u.orders[o.ID()]; ok {
		current = staged.aggregate.Version()
		base = staged.base
	}
	if current != o.Version() {
		return errs.NewConcurrentModificationError("order", o.ID().String(), o.Version())
	}
	o.AdvanceVersion()
	r.u.orders[o.ID()] = stagedOrder{base: base, aggregate: o}
	return nil
}

func (r memoryOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if staged, ok := r.u.orders[id]; ok {
		return staged.aggregate, nil
	}
	s := r.u.db.storedOrder(id)
	if s.Version == 0 {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(s)
}

type memoryQuoteRepo struct{ u *memoryUoW }

func (r memoryQuoteRepo) checkActivePair(q *quote.Quote) error {
	if !q.Status().IsActive() {
		return nil
	}
	all, _ := r.GetByOrder(context.Background(), q.OrderID())
	for _, other := range all {
		if !other.IsEqual(q) && other.CarrierID().IsEqual(q.CarrierID()) && other.Status().IsActive() {
			return errs.NewConflictError("quote", "active quote already exists for this carrier")
		}
	}
	return nil
}

func (r memoryQuoteRepo) Add(_ context.Context, q *quote.Quote) error {
	if err := r.checkActivePair(q); err != nil {
		return err
	}
	q.AdvanceVersion()
	r.u.quotes[q.ID()] = stagedQuote{base: 0, aggregate: q}
	return nil
}

func (r memoryQuoteRepo) Update(_ context.Context, q *quote.Quote) error {
	current := r.u.db.storedQuote(q.ID()).Version
	base := current
	if staged, ok := r.u.quotes[q.ID()]; ok {
		current = staged.aggregate.Version()
		base = staged.base
	}
	if current != q.Version() {
		return errs.NewConcurrentModificationError("quote", q.ID().String(), q.Version())
	}
	if err := r.checkActivePair(q); err != nil {
		return err
	}
	q.AdvanceVersion()
	r.u.quotes[q.ID()] = stagedQuote{base: base, aggregate: q}
	return nil
}

func (r memoryQuoteRepo) Get(_ context.Context, id kernel.UUID) (*quote.Quote, error) {
	if staged, ok := r.u.quotes[id]; ok {
		return staged.aggregate, nil
	}
	s := r.u.db.storedQuote(id)
	if s.Version == 0 {
		return nil, errs.NewObjectNotFoundError("quote", id.String())
	}
	return quote.RestoreQuote(s)
}

func (r memoryQuoteRepo) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*quote.Quote, error) {
	r.u.db.mu.Lock()
	ids := make([]kernel.UUID, 0)
	for id, s := range r.u.db.quotes {
		if s.OrderID.IsEqual(orderID) {
			ids = append(ids, id)
		}
	}
	r.u.db.mu.Unlock()
	for id, s := range r.u.quotes {
		if s.aggregate.OrderID().IsEqual(orderID) && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	result := make([]*quote.Quote, 0, len(ids))
	for _, id := range ids {
		q, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	slices.SortFunc(result, func(a, b *quote.Quote) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return result, nil
}

func (r memoryQuoteRepo) GetOverdue(ctx context.Context, now time.Time, limit int) ([]*quote.Quote, error) {
	r.u.db.mu.Lock()
	var ids []kernel.UUID
	for id, s := range r.u.db.quotes {
		if s.Status.IsActive() && !now.Before(s.ValidUntil) {
			ids = append(ids, id)
		}
	}
	r.u.db.mu.Unlock()

	result := make([]*quote.Quote, 0, len(ids))
	for _, id := range ids {
		if len(result) == limit {
			break
		}
		q, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	return result, nil
}

type memoryVehicleRepo struct{ u *memoryUoW }

func (r memoryVehicleRepo) Add(_ context.Context, v *vehicle.Vehicle) error {
	r.u.db.mu.Lock()
	defer r.u.db.mu.Unlock()
	r.u.db.vehicles[v.ID()] = v
	return nil
}

func (r memoryVehicleRepo) Get(_ context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	r.u.db.mu.Lock()
	defer r.u.db.mu.Unlock()
	v, ok := r.u.db.vehicles[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("vehicle", id.String())
	}
	return v, nil
}

func (r memoryVehicleRepo) GetAvailableByCarrier(_ context.Context, carrierID kernel.UUID) ([]*vehicle.Vehicle, error) {
	r.u.db.mu.Lock()
	defer r.u.db.mu.Unlock()
	var result []*vehicle.Vehicle
	for _, v := range r.u.db.vehicles {
		if v.IsOwnedBy(carrierID) && v.IsAvailable() {
			result = append(result, v)
		}
	}
	return result, nil
}

// fixedClock is a settable test clock.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(now time.Time) *fixedClock { return &fixedClock{now: now} }

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type addressBook map[kernel.UUID]ports.Address

func (b addressBook) Get(_ context.Context, id kernel.UUID) (ports.Address, error) {
	a, ok := b[id]
	if !ok {
		return ports.Address{}, errs.NewObjectNotFoundError("address", id.String())
	}
	return a, nil
}
