package commands

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"
)

// ensureNoActiveQuote enforces one active quote per (order, carrier). Quotes
// whose window already closed are expired on the way so they stop counting.
func ensureNoActiveQuote(ctx context.Context, uow UoW, orderID kernel.UUID, carrierID kernel.UUID, now time.Time) error {
	quotes, err := uow.QuoteRepository().GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	for _, existing := range quotes {
		if !existing.CarrierID().IsEqual(carrierID) || !existing.Status().IsActive() {
			continue
		}
		if !existing.IsExpiredAt(now) {
			return errs.NewConflictError("quote",
				"carrier already has active quote "+existing.Number()+" on this order")
		}
		if err = existing.Expire(now); err != nil {
			return err
		}
		if err = uow.QuoteRepository().Update(ctx, existing); err != nil {
			return err
		}
	}
	return nil
}

// sendQuote sends q and moves its order to DEVIS_ENVOYE.
func sendQuote(ctx context.Context, uow UoW, o *order.Order, q *quote.Quote, carrier kernel.Actor, now time.Time) error {
	if err := q.Send(carrier, o.Status(), now); err != nil {
		return err
	}
	if err := o.RecordQuoteSent(carrier, now); err != nil {
		return err
	}
	return uow.OrderRepository().Update(ctx, o)
}

// placeQuote stores a new quote on o, sending it when send is set. The order
// row is written either way, so every quote on an order advances its version.
func placeQuote(ctx context.Context, uow UoW, o *order.Order, q *quote.Quote, carrier kernel.Actor, send bool, now time.Time) error {
	if send {
		if err := sendQuote(ctx, uow, o, q, carrier, now); err != nil {
			return err
		}
	} else if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	return uow.QuoteRepository().Add(ctx, q)
}
