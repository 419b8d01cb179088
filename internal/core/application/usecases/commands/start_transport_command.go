package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrStartTransportCommandIsNotConstructed = errors.New(
	"StartTransportCommand must be created via NewStartTransportCommand constructor",
)

// StartTransportCommand puts a confirmed order in transit.
type StartTransportCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewStartTransportCommand(orderID kernel.UUID, actor kernel.Actor) (StartTransportCommand, error) {
	cmd := StartTransportCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("orderID", orderID),
		requireActor(actor),
	); err != nil {
		return StartTransportCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c StartTransportCommand) Validate() error {
	return c.guard.Validate(ErrStartTransportCommandIsNotConstructed)
}

func (c StartTransportCommand) OrderID() kernel.UUID { return c.orderID }
func (c StartTransportCommand) Actor() kernel.Actor  { return c.actor }
