package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/vehicle"
)

// VehicleRepository resolves carrier vehicles. Vehicle registration itself is
// handled by the fleet service; Add exists for seeding.
type VehicleRepository interface {
	Add(ctx context.Context, v *vehicle.Vehicle) error

	// Get returns errs.ObjectNotFoundError for unknown vehicles.
	Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error)

	// GetAvailableByCarrier lists the carrier's vehicles flagged as available.
	GetAvailableByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*vehicle.Vehicle, error)
}
