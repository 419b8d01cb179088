package commands

import (
	"context"

	"freight/internal/core/ports"
)

// ExpireQuotesCommandHandler marks overdue BROUILLON and ENVOYE quotes EXPIRE.
// Expiry is already enforced lazily on read and accept; the sweep only keeps
// stored rows honest for reporting.
type ExpireQuotesCommandHandler struct {
	uowFactory QuoteUoWFactory
	clock      ports.Clock
}

func NewExpireQuotesCommandHandler(uowFactory QuoteUoWFactory, clock ports.Clock) ExpireQuotesCommandHandler {
	return ExpireQuotesCommandHandler{uowFactory: uowFactory, clock: clock}
}

// Handle returns the number of quotes it expired.
func (h *ExpireQuotesCommandHandler) Handle(ctx context.Context, cmd ExpireQuotesCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	quoteRepo := uow.QuoteRepository()
	overdue, err := quoteRepo.GetOverdue(ctx, now, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	for _, q := range overdue {
		if err = q.Expire(now); err != nil {
			return 0, err
		}
		if err = quoteRepo.Update(ctx, q); err != nil {
			return 0, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return len(overdue), nil
}
