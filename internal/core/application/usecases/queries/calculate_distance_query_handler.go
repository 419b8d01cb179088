package queries

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/ports"
)

// SpeedTable gives the average speed of a vehicle class.
type SpeedTable interface {
	AverageSpeedKmh(class vehicle.Class) float64
}

type CalculateDistanceQueryHandler struct {
	addresses ports.AddressRepository
	speeds    SpeedTable
}

func NewCalculateDistanceQueryHandler(addresses ports.AddressRepository, speeds SpeedTable) CalculateDistanceQueryHandler {
	return CalculateDistanceQueryHandler{addresses: addresses, speeds: speeds}
}

func (h CalculateDistanceQueryHandler) Handle(
	ctx context.Context,
	query CalculateDistanceQuery,
) (CalculateDistanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return CalculateDistanceQueryResponse{}, err
	}

	from, err := query.From().Resolve(ctx, h.addresses)
	if err != nil {
		return CalculateDistanceQueryResponse{}, err
	}
	to, err := query.To().Resolve(ctx, h.addresses)
	if err != nil {
		return CalculateDistanceQueryResponse{}, err
	}

	d, err := kernel.DistanceAtSpeed(from, to, h.speeds.AverageSpeedKmh(query.Class()))
	if err != nil {
		return CalculateDistanceQueryResponse{}, err
	}

	return CalculateDistanceQueryResponse{
		Class:           query.Class(),
		DistanceKm:      d.DistanceKm(),
		DistanceMiles:   d.DistanceMiles(),
		DurationMinutes: d.DurationMinutes(),
	}, nil
}
