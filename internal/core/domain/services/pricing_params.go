package services

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/vehicle"
	"freight/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ClassParams are the operating costs of one vehicle class.
type ClassParams struct {
	AverageSpeedKmh    decimal.Decimal `yaml:"average_speed_kmh"`
	FuelLitersPer100Km decimal.Decimal `yaml:"fuel_liters_per_100km"`
	FuelPricePerLiter  decimal.Decimal `yaml:"fuel_price_per_liter"`
	TollPerKm          decimal.Decimal `yaml:"toll_per_km"`
	DriverHourlyRate   decimal.Decimal `yaml:"driver_hourly_rate"`
	CO2KgPerLiter      decimal.Decimal `yaml:"co2_kg_per_liter"`
}

// RateCard turns operating costs into an automatic quote. Percentages are
// expressed in percent, 18 meaning 18%.
type RateCard struct {
	BaseFee                 decimal.Decimal `yaml:"base_fee"`
	PerKg                   decimal.Decimal `yaml:"per_kg"`
	PerM3                   decimal.Decimal `yaml:"per_m3"`
	MarginPercent           decimal.Decimal `yaml:"margin_percent"`
	ServiceFeePercent       decimal.Decimal `yaml:"service_fee_percent"`
	SpecialSurchargePercent decimal.Decimal `yaml:"special_surcharge_percent"`
	TaxPercent              decimal.Decimal `yaml:"tax_percent"`
	QuoteValidityHours      int             `yaml:"quote_validity_hours"`
}

// PricingParams is the full pricing configuration for one currency and region.
type PricingParams struct {
	Currency string                        `yaml:"currency"`
	Classes  map[vehicle.Class]ClassParams `yaml:"classes"`
	RateCard RateCard                      `yaml:"rate_card"`
}

// DefaultPricingParams are West African defaults in CFA francs (XOF) with the
// Senegalese VAT rate.
func DefaultPricingParams() PricingParams {
	d := decimal.NewFromFloat
	class := func(speed, consumption, toll, driver float64) ClassParams {
		return ClassParams{
			AverageSpeedKmh:    d(speed),
			FuelLitersPer100Km: d(consumption),
			FuelPricePerLiter:  d(755),
			TollPerKm:          d(toll),
			DriverHourlyRate:   d(driver),
			CO2KgPerLiter:      d(2.68),
		}
	}

	return PricingParams{
		Currency: "XOF",
		Classes: map[vehicle.Class]ClassParams{
			vehicle.ClassVan:          class(70, 10, 5, 1500),
			vehicle.ClassLightTruck:   class(65, 15, 8, 1800),
			vehicle.ClassMediumTruck:  class(60, 25, 12, 2000),
			vehicle.ClassHeavyTruck:   class(55, 35, 18, 2500),
			vehicle.ClassRefrigerated: class(55, 30, 12, 2500),
			vehicle.ClassTanker:       class(50, 38, 18, 3000),
		},
		RateCard: RateCard{
			BaseFee:                 d(15000),
			PerKg:                   d(10),
			PerM3:                   d(1500),
			MarginPercent:           d(20),
			ServiceFeePercent:       d(5),
			SpecialSurchargePercent: d(15),
			TaxPercent:              d(18),
			QuoteValidityHours:      72,
		},
	}
}

// Validate requires a currency, parameters for the default class and
// non-negative values everywhere, with a positive speed.
func (p PricingParams) Validate() error {
	var problems []error
	if p.Currency == "" {
		problems = append(problems, errs.NewValueIsRequiredError("currency"))
	}
	if _, ok := p.Classes[vehicle.DefaultClass]; !ok {
		problems = append(problems, errs.NewValueIsRequiredError("classes."+vehicle.DefaultClass.String()))
	}
	for class, c := range p.Classes {
		if err := class.Validate(); err != nil {
			problems = append(problems, err)
			continue
		}
		if !c.AverageSpeedKmh.IsPositive() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("classes.%s.average_speed_kmh", class), errors.New("must be positive")))
		}
		problems = append(problems, nonNegative(fmt.Sprintf("classes.%s", class), map[string]decimal.Decimal{
			"fuel_liters_per_100km": c.FuelLitersPer100Km,
			"fuel_price_per_liter":  c.FuelPricePerLiter,
			"toll_per_km":           c.TollPerKm,
			"driver_hourly_rate":    c.DriverHourlyRate,
			"co2_kg_per_liter":      c.CO2KgPerLiter,
		})...)
	}
	problems = append(problems, nonNegative("rate_card", map[string]decimal.Decimal{
		"base_fee":                  p.RateCard.BaseFee,
		"per_kg":                    p.RateCard.PerKg,
		"per_m3":                    p.RateCard.PerM3,
		"margin_percent":            p.RateCard.MarginPercent,
		"service_fee_percent":       p.RateCard.ServiceFeePercent,
		"special_surcharge_percent": p.RateCard.SpecialSurchargePercent,
		"tax_percent":               p.RateCard.TaxPercent,
	})...)
	if p.RateCard.QuoteValidityHours <= 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("rate_card.quote_validity_hours",
			p.RateCard.QuoteValidityHours, 1, 24*90))
	}
	return errors.Join(problems...)
}

// ForClass returns the parameters of class, falling back to the default class.
func (p PricingParams) ForClass(class vehicle.Class) ClassParams {
	if c, ok := p.Classes[class]; ok {
		return c
	}
	return p.Classes[vehicle.DefaultClass]
}

func nonNegative(prefix string, values map[string]decimal.Decimal) []error {
	var problems []error
	for name, v := range values {
		if v.IsNegative() {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause(prefix+"."+name, fmt.Errorf("%s is negative", v)))
		}
	}
	return problems
}
