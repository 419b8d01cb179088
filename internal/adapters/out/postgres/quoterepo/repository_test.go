package quoterepo_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/pgtest"
	"freight/internal/adapters/out/postgres/quoterepo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedSet map[kernel.UUID]kernel.EventSource

func (s trackedSet) TrackAggregate(id kernel.UUID, aggregate kernel.EventSource) {
	s[id] = aggregate
}

func newRepository(t *testing.T) (*quoterepo.GormQuoteRepository, trackedSet) {
	t.Helper()
	tracked := trackedSet{}
	return quoterepo.NewGormQuoteRepository(pgtest.OpenSQLite(t), tracked), tracked
}

func TestAdd_RoundTripsEveryColumn(t *testing.T) {
	ctx := context.Background()
	repo, tracked := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	carrier := pgtest.Actor(t, kernel.RoleCarrier)
	vehicleID := kernel.NewUUID()
	b, err := quote.NewBreakdown(50_000, 200_000, 30_000, 1_500, 10_000, 2_500, 29_430)
	require.NoError(t, err)
	q, err := quote.NewQuote(kernel.NewUUID(), o.ID(), carrier, &vehicleID, b, pgtest.Now.Add(72*time.Hour), "loading at dawn", pgtest.Now)
	require.NoError(t, err)
	require.NoError(t, q.Send(carrier, order.Requested, pgtest.Now.Add(time.Minute)))

	require.NoError(t, repo.Add(ctx, q))
	stored, err := repo.Get(ctx, q.ID())

	require.NoError(t, err)
	assert.Contains(t, tracked, q.ID())
	assert.Equal(t, int64(1), stored.Version())
	assert.Equal(t, q.Number(), stored.Number())
	assert.Equal(t, quote.Sent, stored.Status())
	assert.True(t, stored.OrderID().IsEqual(o.ID()))
	assert.True(t, stored.CarrierID().IsEqual(carrier.ProfileID()))
	assert.True(t, stored.VehicleID().IsEqual(vehicleID))
	assert.Nil(t, stored.RevisionOf())
	assert.Equal(t, b.Total(), stored.Breakdown().Total())
	assert.Equal(t, b.Subtotal(), stored.Breakdown().Subtotal())
	assert.Equal(t, int64(1_500), stored.Breakdown().Volume())
	assert.Equal(t, "loading at dawn", stored.Notes())
	assert.True(t, q.ValidUntil().Equal(stored.ValidUntil()))
	assert.True(t, q.SentAt().Equal(*stored.SentAt()))
	assert.Nil(t, stored.RespondedAt())
}

func TestAdd_SecondActiveQuoteOfSameCarrierConflicts(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	carrier := pgtest.Actor(t, kernel.RoleCarrier)
	require.NoError(t, repo.Add(ctx, pgtest.Quote(t, o, carrier, pgtest.Now.Add(time.Hour), pgtest.Now)))

	err := repo.Add(ctx, pgtest.Quote(t, o, carrier, pgtest.Now.Add(time.Hour), pgtest.Now))

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.False(t, errs.IsRetryable(err))
}

func TestAdd_ClosedQuoteFreesTheSlot(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	carrier := pgtest.Actor(t, kernel.RoleCarrier)
	first := pgtest.Quote(t, o, carrier, pgtest.Now.Add(time.Hour), pgtest.Now)
	require.NoError(t, repo.Add(ctx, first))

	require.NoError(t, first.Expire(pgtest.Now.Add(2*time.Hour)))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, repo.Add(ctx, pgtest.Quote(t, o, carrier, pgtest.Now.Add(3*time.Hour), pgtest.Now)))
}

func TestAdd_OtherCarriersQuoteFreely(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)

	for range 3 {
		require.NoError(t, repo.Add(ctx, pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(time.Hour), pgtest.Now)))
	}

	quotes, err := repo.GetByOrder(ctx, o.ID())
	require.NoError(t, err)
	assert.Len(t, quotes, 3)
}

func TestUpdate_StaleCopyLoses(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	carrier := pgtest.Actor(t, kernel.RoleCarrier)
	q := pgtest.Quote(t, o, carrier, pgtest.Now.Add(time.Hour), pgtest.Now)
	require.NoError(t, repo.Add(ctx, q))
	stale, err := repo.Get(ctx, q.ID())
	require.NoError(t, err)

	require.NoError(t, q.Send(carrier, order.Requested, pgtest.Now))
	require.NoError(t, repo.Update(ctx, q))
	require.NoError(t, stale.Send(carrier, order.Requested, pgtest.Now))
	err = repo.Update(ctx, stale)

	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	assert.True(t, errs.IsRetryable(err))
}

func TestGetByOrder_OldestFirst(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	later := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(5*time.Hour), pgtest.Now.Add(time.Hour))
	earlier := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(5*time.Hour), pgtest.Now)
	require.NoError(t, repo.Add(ctx, later))
	require.NoError(t, repo.Add(ctx, earlier))
	other := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	require.NoError(t, repo.Add(ctx, pgtest.Quote(t, other, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(time.Hour), pgtest.Now)))

	quotes, err := repo.GetByOrder(ctx, o.ID())

	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.True(t, quotes[0].IsEqual(earlier))
	assert.True(t, quotes[1].IsEqual(later))
}

func TestGetOverdue(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	overdueLong := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(time.Hour), pgtest.Now)
	overdueShort := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(2*time.Hour), pgtest.Now)
	open := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(48*time.Hour), pgtest.Now)
	closed := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(time.Hour), pgtest.Now)
	require.NoError(t, closed.Supersede(pgtest.Now))
	for _, q := range []*quote.Quote{overdueShort, open, closed, overdueLong} {
		require.NoError(t, repo.Add(ctx, q))
	}
	at := pgtest.Now.Add(3 * time.Hour)

	all, err := repo.GetOverdue(ctx, at, 10)
	require.NoError(t, err)
	limited, err := repo.GetOverdue(ctx, at, 1)
	require.NoError(t, err)

	require.Len(t, all, 2)
	assert.True(t, all[0].IsEqual(overdueLong))
	assert.True(t, all[1].IsEqual(overdueShort))
	require.Len(t, limited, 1)
	assert.True(t, limited[0].IsEqual(overdueLong))
}

func TestGetOverdue_BoundaryIsInclusive(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepository(t)
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	q := pgtest.Quote(t, o, pgtest.Actor(t, kernel.RoleCarrier), pgtest.Now.Add(time.Hour), pgtest.Now)
	require.NoError(t, repo.Add(ctx, q))

	quotes, err := repo.GetOverdue(ctx, q.ValidUntil(), 10)

	require.NoError(t, err)
	assert.Len(t, quotes, 1)
}

func TestGet_Unknown(t *testing.T) {
	repo, _ := newRepository(t)

	_, err := repo.Get(context.Background(), kernel.NewUUID())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestActiveStatusNames(t *testing.T) {
	assert.ElementsMatch(t, []string{"BROUILLON", "ENVOYE"}, quoterepo.ActiveStatusNames())
}
