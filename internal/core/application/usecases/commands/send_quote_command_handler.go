package commands

import (
	"context"

	"freight/internal/core/ports"
)

// SendQuoteCommandHandler sends a BROUILLON quote and moves its order to DEVIS_ENVOYE.
type SendQuoteCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewSendQuoteCommandHandler(uowFactory UoWFactory, clock ports.Clock) SendQuoteCommandHandler {
	return SendQuoteCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *SendQuoteCommandHandler) Handle(ctx context.Context, cmd SendQuoteCommand) (QuoteResult, error) {
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

	if err = sendQuote(ctx, uow, o, q, cmd.Actor(), h.clock.Now()); err != nil {
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
