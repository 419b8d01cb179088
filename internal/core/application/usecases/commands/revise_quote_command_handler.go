package commands

import (
	"context"

	"freight/internal/core/domain/model/quote"
	"freight/internal/core/ports"
)

// ReviseQuoteResult holds the closed quote and the draft replacing it.
type ReviseQuoteResult struct {
	Previous *quote.Quote
	Revision *quote.Quote
}

// ReviseQuoteCommandHandler closes a sent quote as MODIFIE and stores its
// replacement draft. The old quote is written first so the pair never holds
// two active quotes.
type ReviseQuoteCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewReviseQuoteCommandHandler(uowFactory UoWFactory, clock ports.Clock) ReviseQuoteCommandHandler {
	return ReviseQuoteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *ReviseQuoteCommandHandler) Handle(ctx context.Context, cmd ReviseQuoteCommand) (ReviseQuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReviseQuoteResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ReviseQuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	quoteRepo := uow.QuoteRepository()
	previous, err := quoteRepo.Get(ctx, cmd.QuoteID())
	if err != nil {
		return ReviseQuoteResult{}, err
	}
	o, err := uow.OrderRepository().Get(ctx, previous.OrderID())
	if err != nil {
		return ReviseQuoteResult{}, err
	}
	if err = o.EnsureAcceptsQuotes(); err != nil {
		return ReviseQuoteResult{}, err
	}

	revision, err := previous.Revise(cmd.Actor(), cmd.RevisionID(), cmd.Breakdown(), cmd.ValidUntil(), cmd.Notes(), now)
	if err != nil {
		return ReviseQuoteResult{}, err
	}

	if err = quoteRepo.Update(ctx, previous); err != nil {
		return ReviseQuoteResult{}, err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return ReviseQuoteResult{}, err
	}
	if err = quoteRepo.Add(ctx, revision); err != nil {
		return ReviseQuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ReviseQuoteResult{}, err
	}

	return ReviseQuoteResult{Previous: previous, Revision: revision}, nil
}
