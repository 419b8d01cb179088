package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and closes every quote still open
// on it in the same transaction.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewCancelOrderCommandHandler(uowFactory UoWFactory, clock ports.Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	orderRepo := uow.OrderRepository()
	quoteRepo := uow.QuoteRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = o.Cancel(cmd.Actor(), cmd.Reason(), now); err != nil {
		return nil, err
	}

	quotes, err := quoteRepo.GetByOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	closed, err := closeActiveQuotes(quotes, now)
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}
	for _, q := range closed {
		if err = quoteRepo.Update(ctx, q); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

// closeActiveQuotes expires overdue active quotes and supersedes the rest.
// It returns the quotes it changed.
func closeActiveQuotes(quotes []*quote.Quote, now time.Time) ([]*quote.Quote, error) {
	changed := make([]*quote.Quote, 0, len(quotes))
	for _, q := range quotes {
		if !q.Status().IsActive() {
			continue
		}
		var err error
		if q.IsExpiredAt(now) {
			err = q.Expire(now)
		} else {
			err = q.Supersede(now)
		}
		if err != nil {
			return nil, err
		}
		changed = append(changed, q)
	}
	return changed, nil
}
