package commands_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"

	"github.com/stretchr/testify/require"
)

var (
	dakar = kernel.MustCoordinate(14.6928, -17.4467)
	thies = kernel.MustCoordinate(14.7886, -16.9282)
	start = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)
)

func newActor(t *testing.T, role kernel.Role) kernel.Actor {
	t.Helper()
	profileID := kernel.NewUUID()
	if role == kernel.RoleAdmin {
		profileID = kernel.UUID{}
	}
	a, err := kernel.NewActor("user-"+kernel.NewUUID().ShortCode(), profileID, role)
	require.NoError(t, err)
	return a
}

func newGoods(t *testing.T, weightKg float64, goodsType kernel.GoodsType) order.Goods {
	t.Helper()
	g, err := order.NewGoods(weightKg, 12, 1_500_000, goodsType, "")
	require.NoError(t, err)
	return g
}

// breakdown306800 prices the Dakar to Thies reference trip.
func breakdown306800(t *testing.T) quote.Breakdown {
	t.Helper()
	b, err := quote.NewBreakdown(50_000, 200_000, 30_000, 0, 0, 0, 26_800)
	require.NoError(t, err)
	return b
}
