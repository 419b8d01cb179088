package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrUpdatePositionCommandIsNotConstructed = errors.New(
	"UpdatePositionCommand must be created via NewUpdatePositionCommand constructor",
)

// UpdatePositionCommand reports the carrier's current position for an order in transit.
type UpdatePositionCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    kernel.Actor
	position kernel.Coordinate

	guard guard.ConstructorGuard
}

func NewUpdatePositionCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	position kernel.Coordinate,
) (UpdatePositionCommand, error) {
	cmd := UpdatePositionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("orderID", orderID),
		requireActor(actor),
		cmd.setPosition(position),
	); err != nil {
		return UpdatePositionCommand{}, err
	}
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c UpdatePositionCommand) Validate() error {
	return c.guard.Validate(ErrUpdatePositionCommandIsNotConstructed)
}

func (c UpdatePositionCommand) OrderID() kernel.UUID        { return c.orderID }
func (c UpdatePositionCommand) Actor() kernel.Actor         { return c.actor }
func (c UpdatePositionCommand) Position() kernel.Coordinate { return c.position }

func (c *UpdatePositionCommand) setPosition(position kernel.Coordinate) error {
	if err := position.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("position", err)
	}
	c.position = position
	return nil
}
