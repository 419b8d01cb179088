package commands

import (
	"context"
	"fmt"

	"freight/internal/core/domain/model/order"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// AssignVehicleCommandHandler assigns a vehicle to a confirmed order. The vehicle
// must belong to the calling carrier and be able to carry the order's goods.
type AssignVehicleCommandHandler struct {
	uowFactory UoWFactory
	clock      ports.Clock
}

func NewAssignVehicleCommandHandler(uowFactory UoWFactory, clock ports.Clock) AssignVehicleCommandHandler {
	return AssignVehicleCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *AssignVehicleCommandHandler) Handle(ctx context.Context, cmd AssignVehicleCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	v, err := uow.VehicleRepository().Get(ctx, cmd.VehicleID())
	if err != nil {
		return nil, err
	}
	if !cmd.Actor().IsCarrier() || !v.IsOwnedBy(cmd.Actor().ProfileID()) {
		return nil, errs.NewAuthorizationError(cmd.Actor().String(), string(order.ActionAssignVehicle),
			"vehicle belongs to another carrier")
	}
	goods := o.Goods()
	if !v.CanCarry(goods.WeightKg(), goods.VolumeM3(), goods.GoodsType()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("vehicleID",
			fmt.Errorf("vehicle %s cannot carry %.0f kg of %s goods", v.Plate(), goods.WeightKg(), goods.GoodsType()))
	}

	if err = o.AssignVehicle(cmd.Actor(), v.ID(), h.clock.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
