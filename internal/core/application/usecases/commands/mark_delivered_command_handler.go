package commands

import (
	"context"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
)

// MarkDeliveredCommandHandler moves an order from EN_TRANSIT to LIVRE.
type MarkDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      ports.Clock
}

func NewMarkDeliveredCommandHandler(uowFactory OrderUoWFactory, clock ports.Clock) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return transitionOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order) error {
		return o.Deliver(cmd.Actor(), cmd.Proof(), h.clock.Now())
	})
}
