package commands

import (
	"context"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
)

// StartTransportCommandHandler moves an order from CONFIRME to EN_TRANSIT.
// The caller must be the assigned carrier and a vehicle must be assigned.
type StartTransportCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewStartTransportCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) StartTransportCommandHandler {
	return StartTransportCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *StartTransportCommandHandler) Handle(ctx context.Context, cmd StartTransportCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Start(cmd.Actor(), h.clock.Now())
	})
}
