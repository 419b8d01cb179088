package pgtest

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"

	"github.com/stretchr/testify/require"
)

var (
	Dakar = kernel.MustCoordinate(14.6928, -17.4467)
	Thies = kernel.MustCoordinate(14.7886, -16.9282)
	// Now is the reference clock reading of repository tests.
	Now = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
)

// Actor returns a fresh actor with its own profile.
func Actor(t testing.TB, role kernel.Role) kernel.Actor {
	t.Helper()
	profileID := kernel.NewUUID()
	if role == kernel.RoleAdmin {
		profileID = kernel.UUID{}
	}
	a, err := kernel.NewActor("user-"+kernel.NewUUID().ShortCode(), profileID, role)
	require.NoError(t, err)
	return a
}

// Order returns a new Dakar to Thies order of 2 t of general goods.
func Order(t testing.TB, shipper kernel.Actor, now time.Time) *order.Order {
	t.Helper()
	goods, err := order.NewGoods(2000, 12, 1_500_000, kernel.GoodsGeneral, "")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), shipper, Dakar, Thies, goods, nil, now)
	require.NoError(t, err)
	return o
}

// Quote returns a draft quote of 306 800 for o.
func Quote(t testing.TB, o *order.Order, carrier kernel.Actor, validUntil time.Time, now time.Time) *quote.Quote {
	t.Helper()
	b, err := quote.NewBreakdown(50_000, 200_000, 30_000, 0, 0, 0, 26_800)
	require.NoError(t, err)
	q, err := quote.NewQuote(kernel.NewUUID(), o.ID(), carrier, nil, b, validUntil, "", now)
	require.NoError(t, err)
	return q
}
