package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var (
	ErrSendQuoteCommandIsNotConstructed = errors.New(
		"SendQuoteCommand must be created via NewSendQuoteCommand constructor",
	)
	ErrAcceptQuoteCommandIsNotConstructed = errors.New(
		"AcceptQuoteCommand must be created via NewAcceptQuoteCommand constructor",
	)
	ErrRejectQuoteCommandIsNotConstructed = errors.New(
		"RejectQuoteCommand must be created via NewRejectQuoteCommand constructor",
	)
)

// quoteAction is the shared payload of commands that act on one existing quote.
type quoteAction struct {
	quoteID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func newQuoteAction(quoteID kernel.UUID, actor kernel.Actor) (quoteAction, error) {
	if err := errors.Join(
		requireID("quoteID", quoteID),
		requireActor(actor),
	); err != nil {
		return quoteAction{}, err
	}
	return quoteAction{quoteID: quoteID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (a quoteAction) QuoteID() kernel.UUID { return a.quoteID }
func (a quoteAction) Actor() kernel.Actor  { return a.actor }

// SendQuoteCommand sends a draft quote to the order's shipper.
type SendQuoteCommand struct{ quoteAction }

func NewSendQuoteCommand(quoteID kernel.UUID, actor kernel.Actor) (SendQuoteCommand, error) {
	a, err := newQuoteAction(quoteID, actor)
	return SendQuoteCommand{a}, err
}

func (c SendQuoteCommand) Validate() error {
	return c.guard.Validate(ErrSendQuoteCommandIsNotConstructed)
}

// AcceptQuoteCommand accepts a sent quote on behalf of the order's shipper.
type AcceptQuoteCommand struct{ quoteAction }

func NewAcceptQuoteCommand(quoteID kernel.UUID, actor kernel.Actor) (AcceptQuoteCommand, error) {
	a, err := newQuoteAction(quoteID, actor)
	return AcceptQuoteCommand{a}, err
}

func (c AcceptQuoteCommand) Validate() error {
	return c.guard.Validate(ErrAcceptQuoteCommandIsNotConstructed)
}

// RejectQuoteCommand refuses a sent quote on behalf of the order's shipper.
type RejectQuoteCommand struct{ quoteAction }

func NewRejectQuoteCommand(quoteID kernel.UUID, actor kernel.Actor) (RejectQuoteCommand, error) {
	a, err := newQuoteAction(quoteID, actor)
	return RejectQuoteCommand{a}, err
}

func (c RejectQuoteCommand) Validate() error {
	return c.guard.Validate(ErrRejectQuoteCommandIsNotConstructed)
}
