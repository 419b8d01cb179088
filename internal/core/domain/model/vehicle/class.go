package vehicle

import (
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Class groups vehicles that share pricing parameters and average speed.
type Class string

const (
	ClassVan          Class = "van"
	ClassLightTruck   Class = "light_truck"
	ClassMediumTruck  Class = "medium_truck"
	ClassHeavyTruck   Class = "heavy_truck"
	ClassRefrigerated Class = "refrigerated_truck"
	ClassTanker       Class = "tanker"
)

// DefaultClass is used when a caller does not name a vehicle class.
const DefaultClass = ClassMediumTruck

// Classes returns every vehicle class.
func Classes() []Class {
	return []Class{ClassVan, ClassLightTruck, ClassMediumTruck, ClassHeavyTruck, ClassRefrigerated, ClassTanker}
}

// ParseClass accepts the wire name of a class. An empty string yields DefaultClass.
func ParseClass(s string) (Class, error) {
	if s == "" {
		return DefaultClass, nil
	}
	c := Class(s)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

func (c Class) Validate() error {
	for _, known := range Classes() {
		if c == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("vehicleClass", fmt.Errorf("%q is not a known vehicle class", string(c)))
}

func (c Class) String() string {
	return string(c)
}

// DefaultGoodsTypes is what a vehicle of the class carries when the carrier
// did not list goods types explicitly.
func (c Class) DefaultGoodsTypes() []kernel.GoodsType {
	switch c {
	case ClassRefrigerated:
		return []kernel.GoodsType{kernel.GoodsRefrigerated, kernel.GoodsGeneral, kernel.GoodsFragile}
	case ClassTanker:
		return []kernel.GoodsType{kernel.GoodsLiquid, kernel.GoodsHazardous}
	case ClassHeavyTruck:
		return []kernel.GoodsType{kernel.GoodsGeneral, kernel.GoodsBulk}
	case ClassVan, ClassLightTruck, ClassMediumTruck:
		return []kernel.GoodsType{kernel.GoodsGeneral, kernel.GoodsFragile}
	default:
		return nil
	}
}
