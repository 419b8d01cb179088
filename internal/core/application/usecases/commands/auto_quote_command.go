package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrAutoQuoteCommandIsNotConstructed = errors.New(
	"AutoQuoteCommand must be created via NewAutoQuoteCommand constructor",
)

// AutoQuoteCommand asks the pricing engine to draft a quote for an order using
// the calling carrier's best matching vehicle.
type AutoQuoteCommand struct { //nolint:recvcheck //using for validation
	quoteID kernel.UUID
	orderID kernel.UUID
	actor   kernel.Actor
	send    bool

	guard guard.ConstructorGuard
}

func NewAutoQuoteCommand(quoteID kernel.UUID, orderID kernel.UUID, actor kernel.Actor, send bool) (AutoQuoteCommand, error) {
	if err := errors.Join(
		requireID("quoteID", quoteID),
		requireID("orderID", orderID),
		requireActor(actor),
	); err != nil {
		return AutoQuoteCommand{}, err
	}

	return AutoQuoteCommand{
		quoteID: quoteID,
		orderID: orderID,
		actor:   actor,
		send:    send,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AutoQuoteCommand) Validate() error {
	return c.guard.Validate(ErrAutoQuoteCommandIsNotConstructed)
}

func (c AutoQuoteCommand) QuoteID() kernel.UUID { return c.quoteID }
func (c AutoQuoteCommand) OrderID() kernel.UUID { return c.orderID }
func (c AutoQuoteCommand) Actor() kernel.Actor  { return c.actor }
func (c AutoQuoteCommand) Send() bool           { return c.send }
