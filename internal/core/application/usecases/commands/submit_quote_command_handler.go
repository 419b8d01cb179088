package commands

import (
	"context"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// QuoteResult is a quote together with the order it prices.
type QuoteResult struct {
	Quote *quote.Quote
	Order *order.Order
}

// SubmitQuoteCommandHandler stores a carrier's quote in BROUILLON and optionally
// sends it at once. The order must still accept quotes and the carrier may not
// hold another active quote on it.
type SubmitQuoteCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewSubmitQuoteCommandHandler(uowFactory UoWFactory, clock ports.Clock) SubmitQuoteCommandHandler {
	return SubmitQuoteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *SubmitQuoteCommandHandler) Handle(ctx context.Context, cmd SubmitQuoteCommand) (QuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return QuoteResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return QuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return QuoteResult{}, err
	}
	if err = o.EnsureAcceptsQuotes(); err != nil {
		return QuoteResult{}, err
	}

	if id := cmd.VehicleID(); id != nil {
		v, vErr := uow.VehicleRepository().Get(ctx, *id)
		if vErr != nil {
			return QuoteResult{}, vErr
		}
		if !v.IsOwnedBy(cmd.Actor().ProfileID()) {
			return QuoteResult{}, errs.NewAuthorizationError(cmd.Actor().String(), "submit quote",
				"vehicle belongs to another carrier")
		}
	}

	q, err := quote.NewQuote(cmd.QuoteID(), o.ID(), cmd.Actor(), cmd.VehicleID(),
		cmd.Breakdown(), cmd.ValidUntil(), cmd.Notes(), now)
	if err != nil {
		return QuoteResult{}, err
	}

	if err = ensureNoActiveQuote(ctx, uow, o.ID(), q.CarrierID(), now); err != nil {
		return QuoteResult{}, err
	}
	if err = placeQuote(ctx, uow, o, q, cmd.Actor(), cmd.Send(), now); err != nil {
		return QuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{Quote: q, Order: o}, nil
}
