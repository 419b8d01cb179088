package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a shipper's request to move goods between two places.
// Each place is either a stored address or inline coordinates.
//
// Example:
//
//	goods, _ := order.NewGoods(2000, 12, 1_500_000, kernel.GoodsGeneral, "")
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), shipper,
//	    ports.Place{Coordinate: &dakar}, ports.Place{AddressID: &warehouseID}, goods, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	actor       kernel.Actor
	departure   ports.Place
	destination ports.Place
	goods       order.Goods
	pickupDate  *time.Time

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new transport order.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	actor kernel.Actor,
	departure ports.Place,
	destination ports.Place,
	goods order.Goods,
	pickupDate *time.Time,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		pickupDate: pickupDate,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setActor(actor),
		cmd.setPlaces(departure, destination),
		cmd.setGoods(goods),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CreateOrderCommand) Actor() kernel.Actor      { return c.actor }
func (c CreateOrderCommand) Departure() ports.Place   { return c.departure }
func (c CreateOrderCommand) Destination() ports.Place { return c.destination }
func (c CreateOrderCommand) Goods() order.Goods       { return c.goods }
func (c CreateOrderCommand) PickupDate() *time.Time   { return c.pickupDate }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := requireID("orderID", orderID); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setActor(actor kernel.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	c.actor = actor
	return nil
}

func (c *CreateOrderCommand) setPlaces(departure ports.Place, destination ports.Place) error {
	var errList []error
	if err := departure.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("departure", err))
	}
	if err := destination.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("destination", err))
	}
	if len(errList) > 0 {
		return errors.Join(errList...)
	}

	c.departure = departure
	c.destination = destination
	return nil
}

func (c *CreateOrderCommand) setGoods(goods order.Goods) error {
	if err := goods.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("goods", err)
	}
	c.goods = goods
	return nil
}
