package services

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/domain/model/vehicle"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	sixty       = decimal.NewFromInt(60)
	carbonScale = int32(2)
)

// CostEstimate is the operating cost of a trip. Money is in whole currency units,
// carbon in kilograms with two decimals.
type CostEstimate struct {
	Class           vehicle.Class
	Currency        string
	DistanceKm      float64
	DurationMinutes int
	FuelLiters      float64
	FuelCost        int64
	TollCost        int64
	DriverCost      int64
	TotalCost       int64
	CarbonKg        float64
}

// PricingEstimator derives trip costs and automatic quotes from PricingParams.
// All computations are decimal and deterministic.
type PricingEstimator struct {
	params PricingParams
}

// NewPricingEstimator validates params and returns an estimator.
func NewPricingEstimator(params PricingParams) (*PricingEstimator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &PricingEstimator{params: params}, nil
}

// Params returns the configuration the estimator was built with.
func (e *PricingEstimator) Params() PricingParams {
	return e.params
}

// AverageSpeedKmh is the average speed of class.
func (e *PricingEstimator) AverageSpeedKmh(class vehicle.Class) float64 {
	return e.params.ForClass(class).AverageSpeedKmh.InexactFloat64()
}

// QuoteValidity is how long automatic quotes stay open.
func (e *PricingEstimator) QuoteValidity() time.Duration {
	return time.Duration(e.params.RateCard.QuoteValidityHours) * time.Hour
}

// EstimateTrip measures the great-circle distance between two points at the
// class speed and prices it.
func (e *PricingEstimator) EstimateTrip(from, to kernel.Coordinate, class vehicle.Class) (CostEstimate, error) {
	d, err := kernel.DistanceAtSpeed(from, to, e.AverageSpeedKmh(class))
	if err != nil {
		return CostEstimate{}, err
	}
	return e.Estimate(d.DistanceKm(), class), nil
}

// Estimate prices distanceKm for class:
//
//	fuel   = km * L/100km / 100 * price per litre
//	toll   = km * toll per km
//	driver = hours * hourly rate
//	carbon = litres * CO2 kg per litre
func (e *PricingEstimator) Estimate(distanceKm float64, class vehicle.Class) CostEstimate {
	p := e.params.ForClass(class)
	if distanceKm < 0 {
		distanceKm = 0
	}
	minutes := kernel.EstimateDurationMinutes(distanceKm, p.AverageSpeedKmh.InexactFloat64())

	km := decimal.NewFromFloat(distanceKm)
	liters := km.Mul(p.FuelLitersPer100Km).Div(hundred)
	fuel := liters.Mul(p.FuelPricePerLiter)
	toll := km.Mul(p.TollPerKm)
	driver := decimal.NewFromInt(int64(minutes)).Div(sixty).Mul(p.DriverHourlyRate)

	fuelCost := roundMoney(fuel)
	tollCost := roundMoney(toll)
	driverCost := roundMoney(driver)

	return CostEstimate{
		Class:           class,
		Currency:        e.params.Currency,
		DistanceKm:      distanceKm,
		DurationMinutes: minutes,
		FuelLiters:      liters.Round(carbonScale).InexactFloat64(),
		FuelCost:        fuelCost,
		TollCost:        tollCost,
		DriverCost:      driverCost,
		TotalCost:       fuelCost + tollCost + driverCost,
		CarbonKg:        liters.Mul(p.CO2KgPerLiter).Round(carbonScale).InexactFloat64(),
	}
}

// QuoteBreakdown turns a trip estimate and the order's goods into an itemized
// automatic quote:
//
//	base       = base fee
//	distance   = operating cost * (1 + margin)
//	weight     = kg * per-kg rate
//	volume     = m3 * per-m3 rate
//	surcharges = (base+distance+weight+volume) * special surcharge, when requested
//	fees       = (base+distance+weight+volume+surcharges) * service fee
//	taxes      = subtotal * tax rate
func (e *PricingEstimator) QuoteBreakdown(goods order.Goods, cost CostEstimate) (quote.Breakdown, error) {
	rc := e.params.RateCard

	base := roundMoney(rc.BaseFee)
	distance := roundMoney(decimal.NewFromInt(cost.TotalCost).Mul(percentFactor(rc.MarginPercent)))
	weight := roundMoney(decimal.NewFromFloat(goods.WeightKg()).Mul(rc.PerKg))
	volume := roundMoney(decimal.NewFromFloat(goods.VolumeM3()).Mul(rc.PerM3))

	var surcharges int64
	if goods.HasSpecialRequirements() {
		surcharges = roundMoney(decimal.NewFromInt(base + distance + weight + volume).Mul(rc.SpecialSurchargePercent).Div(hundred))
	}
	fees := roundMoney(decimal.NewFromInt(base + distance + weight + volume + surcharges).Mul(rc.ServiceFeePercent).Div(hundred))
	subtotal := base + distance + weight + volume + surcharges + fees
	taxes := roundMoney(decimal.NewFromInt(subtotal).Mul(rc.TaxPercent).Div(hundred))

	return quote.NewBreakdown(base, distance, weight, volume, surcharges, fees, taxes)
}

func percentFactor(percent decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(percent.Div(hundred))
}

func roundMoney(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
