package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// VehicleMatcher picks the vehicle best suited to some goods.
type VehicleMatcher interface {
	Match(goods order.Goods, vehicles []*vehicle.Vehicle) (*vehicle.Vehicle, error)
}

// QuotePricer turns a trip into a cost estimate and a quote breakdown.
type QuotePricer interface {
	Estimate(distanceKm float64, class vehicle.Class) services.CostEstimate
	QuoteBreakdown(goods order.Goods, cost services.CostEstimate) (quote.Breakdown, error)
	QuoteValidity() time.Duration
}

// AutoQuoteResult is the drafted quote with the estimate it was priced from.
type AutoQuoteResult struct {
	Quote    *quote.Quote
	Order    *order.Order
	Vehicle  *vehicle.Vehicle
	Estimate services.CostEstimate
}

// AutoQuoteCommandHandler drafts a quote from the pricing engine. The smallest
// available vehicle of the carrier that can carry the goods is used; none
// matching fails with errs.NoSuitableVehicleError.
type AutoQuoteCommandHandler struct {
	uowFactory UoWFactory
	matcher    VehicleMatcher
	pricer     QuotePricer
	clock      ports.Clock
}

func NewAutoQuoteCommandHandler(
	uowFactory UoWFactory,
	matcher VehicleMatcher,
	pricer QuotePricer,
	clock ports.Clock,
) AutoQuoteCommandHandler {
	return AutoQuoteCommandHandler{uowFactory: uowFactory, matcher: matcher, pricer: pricer, clock: clock}
}

func (h *AutoQuoteCommandHandler) Handle(ctx context.Context, cmd AutoQuoteCommand) (AutoQuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return AutoQuoteResult{}, err
	}
	if !cmd.Actor().IsCarrier() {
		return AutoQuoteResult{}, errs.NewAuthorizationError(cmd.Actor().String(), "auto quote", "only carriers submit quotes")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AutoQuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return AutoQuoteResult{}, err
	}
	if err = o.EnsureAcceptsQuotes(); err != nil {
		return AutoQuoteResult{}, err
	}

	vehicles, err := uow.VehicleRepository().GetAvailableByCarrier(ctx, cmd.Actor().ProfileID())
	if err != nil {
		return AutoQuoteResult{}, err
	}
	v, err := h.matcher.Match(o.Goods(), vehicles)
	if err != nil {
		return AutoQuoteResult{}, err
	}

	estimate := h.pricer.Estimate(o.Route().DistanceKm(), v.Class())
	breakdown, err := h.pricer.QuoteBreakdown(o.Goods(), estimate)
	if err != nil {
		return AutoQuoteResult{}, err
	}
	vehicleID := v.ID()
	q, err := quote.NewQuote(cmd.QuoteID(), o.ID(), cmd.Actor(), &vehicleID, breakdown,
		now.Add(h.pricer.QuoteValidity()), "", now)
	if err != nil {
		return AutoQuoteResult{}, err
	}

	if err = ensureNoActiveQuote(ctx, uow, o.ID(), q.CarrierID(), now); err != nil {
		return AutoQuoteResult{}, err
	}
	if err = placeQuote(ctx, uow, o, q, cmd.Actor(), cmd.Send(), now); err != nil {
		return AutoQuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AutoQuoteResult{}, err
	}

	return AutoQuoteResult{Quote: q, Order: o, Vehicle: v, Estimate: estimate}, nil
}
