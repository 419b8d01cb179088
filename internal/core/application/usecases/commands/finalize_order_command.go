package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrFinalizeOrderCommandIsNotConstructed = errors.New(
	"FinalizeOrderCommand must be created via NewFinalizeOrderCommand constructor",
)

// FinalizeOrderCommand closes a delivered order. Only administrators and the
// system actor finalize.
type FinalizeOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewFinalizeOrderCommand(orderID kernel.UUID, actor kernel.Actor) (FinalizeOrderCommand, error) {
	cmd := FinalizeOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("orderID", orderID),
		requireActor(actor),
	); err != nil {
		return FinalizeOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c FinalizeOrderCommand) Validate() error {
	return c.guard.Validate(ErrFinalizeOrderCommandIsNotConstructed)
}

func (c FinalizeOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c FinalizeOrderCommand) Actor() kernel.Actor  { return c.actor }
