package quote

import (
	"fmt"
	"math"

	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"
)

// Breakdown is the itemized price of a quote in whole currency units.
// Subtotal and total are always derived, never supplied.
type Breakdown struct {
	base       int64
	distance   int64
	weight     int64
	volume     int64
	surcharges int64
	fees       int64
	subtotal   int64
	taxes      int64
	total      int64
}

// NewBreakdown validates non-negative components and derives
// subtotal = base+distance+weight+volume+surcharges+fees and total = subtotal+taxes.
func NewBreakdown(base, distance, weight, volume, surcharges, fees, taxes int64) (Breakdown, error) {
	components := []struct {
		name  string
		value int64
	}{
		{"base", base}, {"distance", distance}, {"weight", weight}, {"volume", volume},
		{"surcharges", surcharges}, {"fees", fees}, {"taxes", taxes},
	}
	for _, c := range components {
		if c.value < 0 {
			return Breakdown{}, errs.NewValueIsInvalidErrorWithCause(c.name, fmt.Errorf("%d is negative", c.value))
		}
	}

	subtotal, ok := addAmounts(base, distance, weight, volume, surcharges, fees)
	if !ok {
		return Breakdown{}, errs.NewValueIsInvalidErrorWithCause("subtotal", errAmountOverflow)
	}
	total, ok := addAmounts(subtotal, taxes)
	if !ok {
		return Breakdown{}, errs.NewValueIsInvalidErrorWithCause("total", errAmountOverflow)
	}
	return Breakdown{
		base:       base,
		distance:   distance,
		weight:     weight,
		volume:     volume,
		surcharges: surcharges,
		fees:       fees,
		subtotal:   subtotal,
		taxes:      taxes,
		total:      total,
	}, nil
}

var errAmountOverflow = fmt.Errorf("amounts exceed %d", int64(math.MaxInt64))

// addAmounts sums non-negative amounts, reporting false on overflow.
func addAmounts(values ...int64) (int64, bool) {
	var sum int64
	for _, v := range values {
		if v > math.MaxInt64-sum {
			return 0, false
		}
		sum += v
	}
	return sum, true
}

func (b Breakdown) Base() int64       { return b.base }
func (b Breakdown) Distance() int64   { return b.distance }
func (b Breakdown) Weight() int64     { return b.weight }
func (b Breakdown) Volume() int64     { return b.volume }
func (b Breakdown) Surcharges() int64 { return b.surcharges }
func (b Breakdown) Fees() int64       { return b.fees }
func (b Breakdown) Subtotal() int64   { return b.subtotal }
func (b Breakdown) Taxes() int64      { return b.taxes }
func (b Breakdown) Total() int64      { return b.total }

// ToOrderPrice folds volume, surcharges and fees into the order's single fee line.
func (b Breakdown) ToOrderPrice() (order.PriceSnapshot, error) {
	return order.NewPriceSnapshot(b.base, b.distance, b.weight, b.volume+b.surcharges+b.fees, b.taxes, b.total)
}
