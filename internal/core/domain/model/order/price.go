package order

import (
	"fmt"
	"math"

	"freight/internal/pkg/errs"
)

// PriceSnapshot is the price fixed on an order when a quote is accepted.
// Amounts are whole currency units.
type PriceSnapshot struct {
	base     int64
	distance int64
	weight   int64
	fee      int64
	tax      int64
	total    int64
}

// NewPriceSnapshot requires non-negative components whose sum equals total.
func NewPriceSnapshot(base, distance, weight, fee, tax, total int64) (PriceSnapshot, error) {
	for name, v := range map[string]int64{
		"base": base, "distance": distance, "weight": weight, "fee": fee, "tax": tax, "total": total,
	} {
		if v < 0 {
			return PriceSnapshot{}, errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%d is negative", v))
		}
	}
	var sum int64
	for _, v := range []int64{base, distance, weight, fee, tax} {
		if v > math.MaxInt64-sum {
			return PriceSnapshot{}, errs.NewValueIsInvalidErrorWithCause(
				"total", fmt.Errorf("components exceed %d", int64(math.MaxInt64)))
		}
		sum += v
	}
	if sum != total {
		return PriceSnapshot{}, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("components add up to %d, total is %d", sum, total))
	}
	return PriceSnapshot{base: base, distance: distance, weight: weight, fee: fee, tax: tax, total: total}, nil
}

func (p PriceSnapshot) Base() int64     { return p.base }
func (p PriceSnapshot) Distance() int64 { return p.distance }
func (p PriceSnapshot) Weight() int64   { return p.weight }
func (p PriceSnapshot) Fee() int64      { return p.fee }
func (p PriceSnapshot) Tax() int64      { return p.tax }
func (p PriceSnapshot) Total() int64    { return p.total }
