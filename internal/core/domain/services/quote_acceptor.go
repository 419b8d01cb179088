package services

import (
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"
)

// QuoteAcceptor applies a shipper's acceptance across the order and every quote
// competing for it. All guards are checked before anything is mutated; callers
// persist the order and all returned quotes in a single transaction.
type QuoteAcceptor struct{}

func NewQuoteAcceptor() QuoteAcceptor {
	return QuoteAcceptor{}
}

// Accept accepts chosen, confirms o and supersedes the other active quotes in
// competitors (chosen itself may appear there and is skipped). It returns the
// quotes that were superseded.
//
// Guards, in order: shipper owns the order, chosen belongs to it, chosen is not
// expired, chosen is ENVOYE, the order awaits a quote decision.
func (a QuoteAcceptor) Accept(
	shipper kernel.Actor,
	o *order.Order,
	chosen *quote.Quote,
	competitors []*quote.Quote,
	now time.Time,
) ([]*quote.Quote, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := chosen.Validate(); err != nil {
		return nil, err
	}
	if !o.IsShipper(shipper) {
		return nil, errs.NewAuthorizationError(shipper.String(), "accept quote", "only the order's shipper may accept quotes")
	}
	if !chosen.OrderID().IsEqual(o.ID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("quoteID",
			fmt.Errorf("quote %s belongs to another order", chosen.Number()))
	}
	if chosen.IsExpiredAt(now) {
		return nil, errs.NewExpiredError("quote", chosen.Number(), chosen.ValidUntil())
	}
	if _, err := chosen.Status().Next(quote.ActionAccept); err != nil {
		return nil, err
	}
	if _, err := o.Status().Next(order.ActionAcceptQuote); err != nil {
		return nil, err
	}
	price, err := chosen.Breakdown().ToOrderPrice()
	if err != nil {
		return nil, err
	}

	if err := o.AcceptQuote(shipper, chosen.ID(), chosen.CarrierID(), price, now); err != nil {
		return nil, err
	}
	if err := chosen.Accept(now); err != nil {
		return nil, err
	}

	var superseded []*quote.Quote
	for _, q := range competitors {
		if q.IsEqual(chosen) || !q.OrderID().IsEqual(o.ID()) || !q.Status().IsActive() {
			continue
		}
		if err := q.Supersede(now); err != nil {
			return nil, err
		}
		superseded = append(superseded, q)
	}
	return superseded, nil
}
