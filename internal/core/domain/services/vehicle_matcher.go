package services

import (
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/pkg/errs"
)

// VehicleMatcher selects the vehicle used for automatic pricing.
//
// Business rules:
//   - the vehicle must be available
//   - capacity must cover the goods weight (and volume when both are known)
//   - the vehicle must support the goods type
//   - among candidates the smallest capacity wins, then the smallest volume,
//     then the lowest id, so the choice is deterministic
type VehicleMatcher struct{}

func NewVehicleMatcher() VehicleMatcher {
	return VehicleMatcher{}
}

// Match returns the best vehicle for goods or a NoSuitableVehicleError.
func (m VehicleMatcher) Match(goods order.Goods, vehicles []*vehicle.Vehicle) (*vehicle.Vehicle, error) {
	if err := goods.Validate(); err != nil {
		return nil, err
	}

	var best *vehicle.Vehicle
	for _, v := range vehicles {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if !v.CanCarry(goods.WeightKg(), goods.VolumeM3(), goods.GoodsType()) {
			continue
		}
		if best == nil || smaller(v, best) {
			best = v
		}
	}

	if best == nil {
		return nil, errs.NewNoSuitableVehicleError(goods.WeightKg(), goods.GoodsType().String())
	}
	return best, nil
}

func smaller(a, b *vehicle.Vehicle) bool {
	if a.CapacityKg() != b.CapacityKg() {
		return a.CapacityKg() < b.CapacityKg()
	}
	if a.VolumeM3() != b.VolumeM3() {
		return a.VolumeM3() < b.VolumeM3()
	}
	return a.ID().String() < b.ID().String()
}
