package commands

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// RejectQuoteCommandHandler records a shipper's explicit refusal of a sent quote.
// Rejection does not move the order; other quotes stay open.
type RejectQuoteCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewRejectQuoteCommandHandler(uowFactory UoWFactory, clock ports.Clock) RejectQuoteCommandHandler {
	return RejectQuoteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *RejectQuoteCommandHandler) Handle(ctx context.Context, cmd RejectQuoteCommand) (QuoteResult, error) {
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

	q, err := uow.QuoteRepository().Get(ctx, cmd.QuoteID())
	if err != nil {
		return QuoteResult{}, err
	}
	o, err := uow.OrderRepository().Get(ctx, q.OrderID())
	if err != nil {
		return QuoteResult{}, err
	}
	if !o.IsShipper(cmd.Actor()) {
		return QuoteResult{}, errs.NewAuthorizationError(cmd.Actor().String(), "reject quote",
			"only the order's shipper may reject quotes")
	}

	if err = q.Reject(h.clock.Now()); err != nil {
		return QuoteResult{}, err
	}
	if err = uow.QuoteRepository().Update(ctx, q); err != nil {
		return QuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return QuoteResult{}, err
	}

	return QuoteResult{Quote: q, Order: o}, nil
}
