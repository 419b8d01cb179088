package order

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// ErrGoodsIsNotConstructed is returned when zero-value Goods are attached to an order.
var ErrGoodsIsNotConstructed = errs.NewValueIsRequiredError("goods must be created via NewGoods")

// Goods describes what is carried. Weight is mandatory, volume and declared value are optional.
type Goods struct { //nolint:recvcheck //using for validation
	weightKg            float64
	volumeM3            float64
	declaredValue       int64
	goodsType           kernel.GoodsType
	specialRequirements string
	guard               guard.ConstructorGuard
}

// NewGoods validates goods attributes. Special requirements are trimmed; a
// non-empty value makes the order eligible for the special-handling surcharge.
func NewGoods(
	weightKg float64,
	volumeM3 float64,
	declaredValue int64,
	goodsType kernel.GoodsType,
	specialRequirements string,
) (Goods, error) {
	g := Goods{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		g.setWeight(weightKg),
		g.setVolume(volumeM3),
		g.setDeclaredValue(declaredValue),
		g.setGoodsType(goodsType),
	); err != nil {
		return Goods{}, err
	}
	g.specialRequirements = strings.TrimSpace(specialRequirements)

	return g, nil
}

func (g Goods) Validate() error {
	return g.guard.Validate(ErrGoodsIsNotConstructed)
}

func (g Goods) WeightKg() float64 {
	return g.weightKg
}

func (g Goods) VolumeM3() float64 {
	return g.volumeM3
}

func (g Goods) DeclaredValue() int64 {
	return g.declaredValue
}

func (g Goods) GoodsType() kernel.GoodsType {
	return g.goodsType
}

func (g Goods) SpecialRequirements() string {
	return g.specialRequirements
}

// HasSpecialRequirements reports whether the shipper asked for special handling.
func (g Goods) HasSpecialRequirements() bool {
	return g.specialRequirements != ""
}

func (g *Goods) setWeight(weightKg float64) error {
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weightKg", fmt.Errorf("%v is not greater than 0", weightKg))
	}
	g.weightKg = weightKg
	return nil
}

func (g *Goods) setVolume(volumeM3 float64) error {
	if math.IsNaN(volumeM3) || math.IsInf(volumeM3, 0) || volumeM3 < 0 {
		return errs.NewValueIsInvalidErrorWithCause("volumeM3", fmt.Errorf("%v is negative", volumeM3))
	}
	g.volumeM3 = volumeM3
	return nil
}

func (g *Goods) setDeclaredValue(value int64) error {
	if value < 0 {
		return errs.NewValueIsInvalidErrorWithCause("declaredValue", fmt.Errorf("%d is negative", value))
	}
	g.declaredValue = value
	return nil
}

func (g *Goods) setGoodsType(goodsType kernel.GoodsType) error {
	if goodsType == "" {
		goodsType = kernel.GoodsGeneral
	}
	if err := goodsType.Validate(); err != nil {
		return err
	}
	g.goodsType = goodsType
	return nil
}
