package commands

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrAssignVehicleCommandIsNotConstructed = errors.New(
	"AssignVehicleCommand must be created via NewAssignVehicleCommand constructor",
)

// AssignVehicleCommand lets the assigned carrier choose one of its vehicles for a confirmed order.
type AssignVehicleCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	vehicleID kernel.UUID
	actor     kernel.Actor

	guard guard.ConstructorGuard
}

func NewAssignVehicleCommand(orderID kernel.UUID, vehicleID kernel.UUID, actor kernel.Actor) (AssignVehicleCommand, error) {
	cmd := AssignVehicleCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		requireID("orderID", orderID),
		requireID("vehicleID", vehicleID),
		requireActor(actor),
	); err != nil {
		return AssignVehicleCommand{}, err
	}
	cmd.orderID = orderID
	cmd.vehicleID = vehicleID
	cmd.actor = actor

	return cmd, nil
}

func (c AssignVehicleCommand) Validate() error {
	return c.guard.Validate(ErrAssignVehicleCommandIsNotConstructed)
}

func (c AssignVehicleCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignVehicleCommand) VehicleID() kernel.UUID { return c.vehicleID }
func (c AssignVehicleCommand) Actor() kernel.Actor    { return c.actor }
