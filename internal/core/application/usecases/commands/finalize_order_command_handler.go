package commands

import (
	"context"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
)

// FinalizeOrderCommandHandler moves an order from LIVRE to TERMINE.
type FinalizeOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewFinalizeOrderCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) FinalizeOrderCommandHandler {
	return FinalizeOrderCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *FinalizeOrderCommandHandler) Handle(ctx context.Context, cmd FinalizeOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Finalize(cmd.Actor(), h.clock.Now())
	})
}
