package commands

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/ports"
)

// SpeedTable gives the average speed of a vehicle class.
type SpeedTable interface {
	AverageSpeedKmh(class vehicle.Class) float64
}

// UpdatePositionResult is the tracked order and what is left of its trip.
type UpdatePositionResult struct {
	Order     *order.Order
	Remaining kernel.DistanceResult
}

// UpdatePositionCommandHandler stores the carrier's position and estimates the
// remaining distance and duration with the assigned vehicle's average speed.
type UpdatePositionCommandHandler struct {
	uowFactory UoWFactory
	speeds     SpeedTable
	clock      ports.Clock
}

func NewUpdatePositionCommandHandler(uowFactory UoWFactory, speeds SpeedTable, clock ports.Clock) UpdatePositionCommandHandler {
	return UpdatePositionCommandHandler{uowFactory: uowFactory, speeds: speeds, clock: clock}
}

func (h *UpdatePositionCommandHandler) Handle(ctx context.Context, cmd UpdatePositionCommand) (UpdatePositionResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdatePositionResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdatePositionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return UpdatePositionResult{}, err
	}
	if err = o.UpdatePosition(cmd.Actor(), cmd.Position(), h.clock.Now()); err != nil {
		return UpdatePositionResult{}, err
	}

	class := vehicle.DefaultClass
	if id := o.VehicleID(); id != nil {
		v, vErr := uow.VehicleRepository().Get(ctx, *id)
		if vErr != nil {
			return UpdatePositionResult{}, vErr
		}
		class = v.Class()
	}
	remaining, err := o.RemainingDistance(h.speeds.AverageSpeedKmh(class))
	if err != nil {
		return UpdatePositionResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return UpdatePositionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdatePositionResult{}, err
	}

	return UpdatePositionResult{Order: o, Remaining: remaining}, nil
}
