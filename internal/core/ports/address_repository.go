package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Address is a stored, geocoded address.
type Address struct {
	ID          kernel.UUID
	OwnerUserID string
	Label       string
	Line        string
	City        string
	Location    kernel.Coordinate
}

// AddressRepository resolves stored addresses.
type AddressRepository interface {
	// Get returns errs.ObjectNotFoundError for unknown addresses.
	Get(ctx context.Context, id kernel.UUID) (Address, error)
}

// Place is either a stored address or inline coordinates. When both are set
// the address wins.
type Place struct {
	AddressID  *kernel.UUID
	Coordinate *kernel.Coordinate
}

// Validate reports a place that references nothing.
func (p Place) Validate() error {
	if p.AddressID == nil && p.Coordinate == nil {
		return errs.NewValueIsRequiredError("coordinates or addressId")
	}
	if p.AddressID != nil {
		return p.AddressID.Validate()
	}
	return p.Coordinate.Validate()
}

// Resolve returns the coordinates of the place, looking up the address when needed.
func (p Place) Resolve(ctx context.Context, addresses AddressRepository) (kernel.Coordinate, error) {
	if err := p.Validate(); err != nil {
		return kernel.Coordinate{}, err
	}
	if p.AddressID == nil {
		return *p.Coordinate, nil
	}

	address, err := addresses.Get(ctx, *p.AddressID)
	if err != nil {
		return kernel.Coordinate{}, err
	}
	return address.Location, nil
}
