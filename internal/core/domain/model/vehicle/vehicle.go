package vehicle

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrVehicleIsNotConstructed is returned when a Vehicle was not created through NewVehicle.
var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")

// Vehicle is a truck registered by a carrier.
type Vehicle struct {
	id         kernel.UUID
	carrierID  kernel.UUID
	plate      string
	class      Class
	capacityKg float64
	volumeM3   float64
	goodsTypes []kernel.GoodsType
	available  bool
	guard      guard.ConstructorGuard
}

// NewVehicle validates a vehicle. When goodsTypes is empty the class defaults apply.
func NewVehicle(
	id kernel.UUID,
	carrierID kernel.UUID,
	plate string,
	class Class,
	capacityKg float64,
	volumeM3 float64,
	goodsTypes []kernel.GoodsType,
	available bool,
) (*Vehicle, error) {
	v := &Vehicle{
		plate:     strings.ToUpper(strings.TrimSpace(plate)),
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		v.setID(id),
		v.setCarrierID(carrierID),
		v.setClass(class),
		v.setCapacity(capacityKg, volumeM3),
	); err != nil {
		return nil, err
	}
	if err := v.setGoodsTypes(goodsTypes); err != nil {
		return nil, err
	}

	return v, nil
}

func (v *Vehicle) Validate() error {
	if v == nil {
		return ErrVehicleIsNotConstructed
	}
	return v.guard.Validate(ErrVehicleIsNotConstructed)
}

func (v *Vehicle) ID() kernel.UUID                { return v.id }
func (v *Vehicle) CarrierID() kernel.UUID         { return v.carrierID }
func (v *Vehicle) Plate() string                  { return v.plate }
func (v *Vehicle) Class() Class                   { return v.class }
func (v *Vehicle) CapacityKg() float64            { return v.capacityKg }
func (v *Vehicle) VolumeM3() float64              { return v.volumeM3 }
func (v *Vehicle) IsAvailable() bool              { return v.available }
func (v *Vehicle) GoodsTypes() []kernel.GoodsType { return slices.Clone(v.goodsTypes) }

// IsOwnedBy reports whether carrierID registered the vehicle.
func (v *Vehicle) IsOwnedBy(carrierID kernel.UUID) bool {
	return v.carrierID.IsEqual(carrierID)
}

// Supports reports whether the vehicle may carry goodsType.
func (v *Vehicle) Supports(goodsType kernel.GoodsType) bool {
	return slices.Contains(v.goodsTypes, goodsType)
}

// CanCarry reports whether the vehicle is available, strong enough and compatible.
// A zero volume on either side means volume is not constrained.
func (v *Vehicle) CanCarry(weightKg float64, volumeM3 float64, goodsType kernel.GoodsType) bool {
	if !v.available || v.capacityKg < weightKg || !v.Supports(goodsType) {
		return false
	}
	return v.volumeM3 == 0 || volumeM3 == 0 || v.volumeM3 >= volumeM3
}

func (v *Vehicle) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *Vehicle) setCarrierID(carrierID kernel.UUID) error {
	if err := carrierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("carrierID", err)
	}
	v.carrierID = carrierID
	return nil
}

func (v *Vehicle) setClass(class Class) error {
	if err := class.Validate(); err != nil {
		return err
	}
	v.class = class
	return nil
}

func (v *Vehicle) setCapacity(capacityKg float64, volumeM3 float64) error {
	if math.IsNaN(capacityKg) || math.IsInf(capacityKg, 0) || capacityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("capacityKg", fmt.Errorf("%v is not greater than 0", capacityKg))
	}
	if math.IsNaN(volumeM3) || math.IsInf(volumeM3, 0) || volumeM3 < 0 {
		return errs.NewValueIsInvalidErrorWithCause("volumeM3", fmt.Errorf("%v is negative", volumeM3))
	}
	v.capacityKg = capacityKg
	v.volumeM3 = volumeM3
	return nil
}

func (v *Vehicle) setGoodsTypes(goodsTypes []kernel.GoodsType) error {
	if len(goodsTypes) == 0 {
		v.goodsTypes = v.class.DefaultGoodsTypes()
		return nil
	}
	for _, gt := range goodsTypes {
		if err := gt.Validate(); err != nil {
			return err
		}
	}
	v.goodsTypes = slices.Compact(slices.Sorted(slices.Values(goodsTypes)))
	return nil
}
