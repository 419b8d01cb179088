package kernel

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// GoodsType classifies freight for vehicle compatibility.
type GoodsType string

const (
	GoodsGeneral      GoodsType = "general"
	GoodsFragile      GoodsType = "fragile"
	GoodsRefrigerated GoodsType = "refrigerated"
	GoodsHazardous    GoodsType = "hazardous"
	GoodsLiquid       GoodsType = "liquid"
	GoodsBulk         GoodsType = "bulk"
)

// GoodsTypes lists every known goods type in a stable order.
func GoodsTypes() []GoodsType {
	return []GoodsType{GoodsGeneral, GoodsFragile, GoodsRefrigerated, GoodsHazardous, GoodsLiquid, GoodsBulk}
}

// ParseGoodsType accepts the lower-case wire name of a goods type.
func ParseGoodsType(s string) (GoodsType, error) {
	gt := GoodsType(s)
	if err := gt.Validate(); err != nil {
		return "", err
	}
	return gt, nil
}

// Validate rejects unknown goods types.
func (g GoodsType) Validate() error {
	for _, known := range GoodsTypes() {
		if g == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("goodsType", fmt.Errorf("%q is not a known goods type", string(g)))
}

func (g GoodsType) String() string {
	return string(g)
}
