package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/ports"
)

// QuoteAcceptor applies an acceptance across an order and its competing quotes.
type QuoteAcceptor interface {
	Accept(
		shipper kernel.Actor,
		o *order.Order,
		chosen *quote.Quote,
		competitors []*quote.Quote,
		now time.Time,
	) ([]*quote.Quote, error)
}

// AcceptQuoteResult carries the confirmed order, the accepted quote and the
// quotes that lost the competition.
type AcceptQuoteResult struct {
	Order      *order.Order
	Quote      *quote.Quote
	Superseded []*quote.Quote
}

// AcceptQuoteCommandHandler accepts a quote, confirms its order and closes every
// competing quote as one transaction. The version check on the order makes two
// concurrent acceptances on the same order end with exactly one winner; the
// loser receives errs.ConcurrentModificationError.
//
// Example:
//
//	handler := NewAcceptQuoteCommandHandler(uowFactory, services.NewQuoteAcceptor(), clock)
//	cmd, _ := NewAcceptQuoteCommand(quoteID, shipper)
//	res, err := handler.Handle(ctx, cmd)
//	if errs.IsRetryable(err) {
//	    // reload and try again
//	}
type AcceptQuoteCommandHandler struct {
	uowFactory UoWFactory
	acceptor   QuoteAcceptor
	clock      ports.Clock
}

func NewAcceptQuoteCommandHandler(uowFactory UoWFactory, acceptor QuoteAcceptor, clock ports.Clock) AcceptQuoteCommandHandler {
	return AcceptQuoteCommandHandler{uowFactory: uowFactory, acceptor: acceptor, clock: clock}
}

func (h *AcceptQuoteCommandHandler) Handle(ctx context.Context, cmd AcceptQuoteCommand) (AcceptQuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return AcceptQuoteResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AcceptQuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	quoteRepo := uow.QuoteRepository()
	chosen, err := quoteRepo.Get(ctx, cmd.QuoteID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}
	o, err := uow.OrderRepository().Get(ctx, chosen.OrderID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}
	siblings, err := quoteRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	superseded, err := h.acceptor.Accept(cmd.Actor(), o, chosen, siblings, h.clock.Now())
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return AcceptQuoteResult{}, err
	}
	if err = quoteRepo.Update(ctx, chosen); err != nil {
		return AcceptQuoteResult{}, err
	}
	for _, q := range superseded {
		if err = quoteRepo.Update(ctx, q); err != nil {
			return AcceptQuoteResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return AcceptQuoteResult{}, err
	}

	return AcceptQuoteResult{Order: o, Quote: chosen, Superseded: superseded}, nil
}
