package commands

import (
	"context"
	"fmt"
	"time"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// CreateOrderCommandHandler creates transport orders in DEMANDE.
// Stored addresses are resolved to coordinates before the transaction starts.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, addresses, clock)
//	o, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	fmt.Println(o.Number(), o.Route().DistanceKm())
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	addresses  ports.AddressRepository
	clock      ports.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	addresses ports.AddressRepository,
	clock ports.Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		addresses:  addresses,
		clock:      clock,
	}
}

// Handle processes the order creation command and returns the persisted order.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	departure, err := cmd.Departure().Resolve(ctx, h.addresses)
	if err != nil {
		return nil, fmt.Errorf("resolve departure: %w", err)
	}
	destination, err := cmd.Destination().Resolve(ctx, h.addresses)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}
	if same, _ := departure.IsEqual(destination); same {
		return nil, errs.NewValueIsInvalidErrorWithCause("destination",
			fmt.Errorf("destination %s equals departure", destination))
	}

	now := h.clock.Now()
	if p := cmd.PickupDate(); p != nil && p.UTC().Before(now.UTC().Truncate(24*time.Hour)) {
		return nil, errs.NewValueIsInvalidErrorWithCause("pickupDate",
			fmt.Errorf("pickup date %s is in the past", p.UTC().Format(time.DateOnly)))
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Actor(), departure, destination, cmd.Goods(), cmd.PickupDate(), now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
