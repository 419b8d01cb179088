package queries_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/addressrepo"
	"freight/internal/adapters/out/postgres/orderrepo"
	"freight/internal/adapters/out/postgres/pgtest"
	"freight/internal/adapters/out/postgres/quoterepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type nopTracker struct{}

func (nopTracker) TrackAggregate(kernel.UUID, kernel.EventSource) {}

// store seeds the SQLite database through the real repositories.
type store struct {
	t         *testing.T
	db        *gorm.DB
	orders    *orderrepo.GormOrderRepository
	quotes    *quoterepo.GormQuoteRepository
	addresses *addressrepo.GormAddressRepository
}

func newStore(t *testing.T) *store {
	t.Helper()
	db := pgtest.OpenSQLite(t)
	return &store{
		t:         t,
		db:        db,
		orders:    orderrepo.NewGormOrderRepository(db, nopTracker{}),
		quotes:    quoterepo.NewGormQuoteRepository(db, nopTracker{}),
		addresses: addressrepo.NewGormAddressRepository(db),
	}
}

func (s *store) order(shipper kernel.Actor, createdAt time.Time) *order.Order {
	s.t.Helper()
	o := pgtest.Order(s.t, shipper, createdAt)
	require.NoError(s.t, s.orders.Add(context.Background(), o))
	return o
}

// sentQuote stores a sent quote of total for o and moves o to QuoteSent.
func (s *store) sentQuote(o *order.Order, carrier kernel.Actor, total int64, validUntil time.Time) *quote.Quote {
	s.t.Helper()
	ctx := context.Background()
	b, err := quote.NewBreakdown(total, 0, 0, 0, 0, 0, 0)
	require.NoError(s.t, err)
	q, err := quote.NewQuote(kernel.NewUUID(), o.ID(), carrier, nil, b, validUntil, "", o.CreatedAt())
	require.NoError(s.t, err)
	require.NoError(s.t, q.Send(carrier, o.Status(), o.CreatedAt()))
	require.NoError(s.t, s.quotes.Add(ctx, q))

	if o.Status() == order.Requested {
		require.NoError(s.t, o.RecordQuoteSent(carrier, o.CreatedAt()))
		require.NoError(s.t, s.orders.Update(ctx, o))
	}
	return q
}

// confirmed stores an order confirmed at total for carrier.
func (s *store) confirmed(shipper kernel.Actor, carrier kernel.Actor, total int64, createdAt time.Time) *order.Order {
	s.t.Helper()
	ctx := context.Background()
	o := s.order(shipper, createdAt)
	q := s.sentQuote(o, carrier, total, createdAt.Add(72*time.Hour))

	_, err := services.NewQuoteAcceptor().Accept(shipper, o, q, nil, createdAt.Add(time.Minute))
	require.NoError(s.t, err)
	require.NoError(s.t, s.orders.Update(ctx, o))
	require.NoError(s.t, s.quotes.Update(ctx, q))
	return o
}

func (s *store) address(owner string, label string, at kernel.Coordinate) ports.Address {
	s.t.Helper()
	a := ports.Address{ID: kernel.NewUUID(), OwnerUserID: owner, Label: label, City: label, Location: at}
	require.NoError(s.t, s.addresses.Add(context.Background(), a))
	return a
}

func fixedClock(at time.Time) ports.Clock {
	return ports.ClockFunc(func() time.Time { return at })
}
