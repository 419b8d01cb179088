package services_test

import (
	"testing"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/domain/services"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEstimator(t *testing.T) *services.PricingEstimator {
	t.Helper()
	e, err := services.NewPricingEstimator(services.DefaultPricingParams())
	require.NoError(t, err)
	return e
}

func TestPricingEstimator_Estimate(t *testing.T) {
	e := defaultEstimator(t)

	cost := e.Estimate(100, vehicle.ClassMediumTruck)

	assert.Equal(t, 100, cost.DurationMinutes)
	assert.InDelta(t, 25.0, cost.FuelLiters, 1e-9)
	assert.Equal(t, int64(18_875), cost.FuelCost)
	assert.Equal(t, int64(1_200), cost.TollCost)
	assert.Equal(t, int64(3_333), cost.DriverCost)
	assert.Equal(t, int64(23_408), cost.TotalCost)
	assert.InDelta(t, 67.0, cost.CarbonKg, 1e-9)
	assert.Equal(t, "XOF", cost.Currency)
}

func TestPricingEstimator_IsDeterministicAndMonotonic(t *testing.T) {
	e := defaultEstimator(t)

	assert.Equal(t, e.Estimate(57.3, vehicle.ClassVan), e.Estimate(57.3, vehicle.ClassVan))
	assert.Less(t, e.Estimate(50, vehicle.ClassHeavyTruck).TotalCost, e.Estimate(100, vehicle.ClassHeavyTruck).TotalCost)
	assert.Less(t, e.Estimate(100, vehicle.ClassVan).TotalCost, e.Estimate(100, vehicle.ClassHeavyTruck).TotalCost)
	assert.Zero(t, e.Estimate(-5, vehicle.ClassVan).TotalCost)
}

func TestPricingEstimator_CarbonHasTwoDecimals(t *testing.T) {
	cost := defaultEstimator(t).Estimate(33.333, vehicle.ClassLightTruck)

	assert.Equal(t, cost.CarbonKg, decimal.NewFromFloat(cost.CarbonKg).Round(2).InexactFloat64())
}

func TestPricingEstimator_EstimateTrip(t *testing.T) {
	e := defaultEstimator(t)
	dakar := kernel.MustCoordinate(14.6928, -17.4467)
	thies := kernel.MustCoordinate(14.7886, -16.9282)

	cost, err := e.EstimateTrip(dakar, thies, vehicle.ClassMediumTruck)

	require.NoError(t, err)
	assert.InDelta(t, 56.8, cost.DistanceKm, 0.5)
	assert.Positive(t, cost.TotalCost)

	_, err = e.EstimateTrip(dakar, kernel.Coordinate{}, vehicle.ClassMediumTruck)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPricingEstimator_UnknownClassFallsBackToDefault(t *testing.T) {
	params := services.DefaultPricingParams()
	delete(params.Classes, vehicle.ClassTanker)
	e, err := services.NewPricingEstimator(params)
	require.NoError(t, err)

	assert.Equal(t, e.Estimate(80, vehicle.ClassMediumTruck).TotalCost, e.Estimate(80, vehicle.ClassTanker).TotalCost)
	assert.InDelta(t, 60.0, e.AverageSpeedKmh(vehicle.ClassTanker), 1e-9)
	assert.Equal(t, 72*time.Hour, e.QuoteValidity())
}

func TestPricingEstimator_QuoteBreakdown(t *testing.T) {
	e := defaultEstimator(t)
	cost := e.Estimate(100, vehicle.ClassMediumTruck)

	t.Run("standard goods", func(t *testing.T) {
		goods, err := order.NewGoods(2000, 12, 0, kernel.GoodsGeneral, "")
		require.NoError(t, err)

		b, err := e.QuoteBreakdown(goods, cost)

		require.NoError(t, err)
		assert.Equal(t, int64(15_000), b.Base())
		assert.Equal(t, int64(28_090), b.Distance())
		assert.Equal(t, int64(20_000), b.Weight())
		assert.Equal(t, int64(18_000), b.Volume())
		assert.Zero(t, b.Surcharges())
		assert.Equal(t, int64(4_055), b.Fees())
		assert.Equal(t, int64(85_145), b.Subtotal())
		assert.Equal(t, int64(15_326), b.Taxes())
		assert.Equal(t, int64(100_471), b.Total())
	})

	t.Run("special requirements add a surcharge", func(t *testing.T) {
		goods, err := order.NewGoods(2000, 12, 0, kernel.GoodsGeneral, "sangles et bâche")
		require.NoError(t, err)

		b, err := e.QuoteBreakdown(goods, cost)

		require.NoError(t, err)
		assert.Equal(t, int64(12_164), b.Surcharges())
		assert.Equal(t, int64(4_663), b.Fees())
		assert.Equal(t, int64(115_542), b.Total())
	})
}

func TestPricingParams_Validate(t *testing.T) {
	require.NoError(t, services.DefaultPricingParams().Validate())

	params := services.DefaultPricingParams()
	params.Currency = ""
	delete(params.Classes, vehicle.DefaultClass)
	van := params.Classes[vehicle.ClassVan]
	van.AverageSpeedKmh = decimal.Zero
	van.TollPerKm = decimal.NewFromInt(-1)
	params.Classes[vehicle.ClassVan] = van
	params.RateCard.TaxPercent = decimal.NewFromInt(-18)
	params.RateCard.QuoteValidityHours = 0

	err := params.Validate()

	require.Error(t, err)
	for _, fragment := range []string{
		"currency", "classes.medium_truck", "classes.van.average_speed_kmh",
		"classes.van.toll_per_km", "rate_card.tax_percent", "rate_card.quote_validity_hours",
	} {
		assert.Contains(t, err.Error(), fragment)
	}

	_, err = services.NewPricingEstimator(params)
	require.Error(t, err)
}
