// Package orderrepo persists transport order aggregates with GORM.
// DTOs flatten the aggregate into one "orders" row; the version column backs
// compare-and-swap updates.
package orderrepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the "orders" row.
type OrderDTO struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey"`
	Number             string        `gorm:"size:32;uniqueIndex"`
	ShipperID          uuid.UUID     `gorm:"type:uuid;index"`
	CarrierID          *uuid.UUID    `gorm:"type:uuid;index"`
	VehicleID          *uuid.UUID    `gorm:"type:uuid"`
	AcceptedQuoteID    *uuid.UUID    `gorm:"type:uuid"`
	Departure          CoordinateDTO `gorm:"embedded;embeddedPrefix:departure_"`
	Destination        CoordinateDTO `gorm:"embedded;embeddedPrefix:destination_"`
	DistanceKm         float64
	DurationMinutes    int
	Goods              GoodsDTO `gorm:"embedded;embeddedPrefix:goods_"`
	PickupDate         *time.Time
	Status             string      `gorm:"size:20;index"`
	Price              PriceDTO    `gorm:"embedded;embeddedPrefix:price_"`
	Position           PositionDTO `gorm:"embedded;embeddedPrefix:position_"`
	DeliveryProof      string      `gorm:"size:255"`
	CancellationReason string      `gorm:"size:500"`
	CreatedAt          time.Time   `gorm:"index;autoCreateTime:false"`
	UpdatedAt          time.Time   `gorm:"autoUpdateTime:false"`
	AssignedAt         *time.Time
	StartedAt          *time.Time
	DeliveredAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	Version            int64 `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CoordinateDTO stores a mandatory point.
type CoordinateDTO struct {
	Lat float64
	Lon float64
}

// PositionDTO stores the optional last known position.
type PositionDTO struct {
	Lat *float64
	Lon *float64
}

type GoodsDTO struct {
	WeightKg            float64
	VolumeM3            float64
	DeclaredValue       int64
	Type                string `gorm:"size:20"`
	SpecialRequirements string `gorm:"size:500"`
}

// PriceDTO stores the price snapshot; every column is NULL until a quote is accepted.
type PriceDTO struct {
	Base     *int64
	Distance *int64
	Weight   *int64
	Fee      *int64
	Tax      *int64
	Total    *int64 `gorm:"index"`
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	dto := OrderDTO{
		ID:                 s.ID.Bytes(),
		Number:             s.Number,
		ShipperID:          s.ShipperID.Bytes(),
		CarrierID:          optionalID(s.CarrierID),
		VehicleID:          optionalID(s.VehicleID),
		AcceptedQuoteID:    optionalID(s.AcceptedQuoteID),
		Departure:          CoordinateDTO{Lat: s.Departure.Latitude(), Lon: s.Departure.Longitude()},
		Destination:        CoordinateDTO{Lat: s.Destination.Latitude(), Lon: s.Destination.Longitude()},
		DistanceKm:         s.Route.DistanceKm(),
		DurationMinutes:    s.Route.DurationMinutes(),
		PickupDate:         utc(s.PickupDate),
		Status:             s.Status.String(),
		DeliveryProof:      s.DeliveryProof,
		CancellationReason: s.CancellationReason,
		CreatedAt:          s.CreatedAt.UTC(),
		UpdatedAt:          s.UpdatedAt.UTC(),
		AssignedAt:         utc(s.AssignedAt),
		StartedAt:          utc(s.StartedAt),
		DeliveredAt:        utc(s.DeliveredAt),
		CompletedAt:        utc(s.CompletedAt),
		CancelledAt:        utc(s.CancelledAt),
		Version:            s.Version,
		Goods: GoodsDTO{
			WeightKg:            s.Goods.WeightKg(),
			VolumeM3:            s.Goods.VolumeM3(),
			DeclaredValue:       s.Goods.DeclaredValue(),
			Type:                s.Goods.GoodsType().String(),
			SpecialRequirements: s.Goods.SpecialRequirements(),
		},
	}
	if p := s.Price; p != nil {
		dto.Price = PriceDTO{
			Base:     ptr(p.Base()),
			Distance: ptr(p.Distance()),
			Weight:   ptr(p.Weight()),
			Fee:      ptr(p.Fee()),
			Tax:      ptr(p.Tax()),
			Total:    ptr(p.Total()),
		}
	}
	if pos := s.CurrentPosition; pos != nil {
		dto.Position = PositionDTO{Lat: ptr(pos.Latitude()), Lon: ptr(pos.Longitude())}
	}
	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipperID, err := kernel.UUIDFromBytes(dto.ShipperID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := restoreID(dto.CarrierID)
	if err != nil {
		return nil, err
	}
	vehicleID, err := restoreID(dto.VehicleID)
	if err != nil {
		return nil, err
	}
	acceptedQuoteID, err := restoreID(dto.AcceptedQuoteID)
	if err != nil {
		return nil, err
	}

	departure, err := kernel.NewCoordinate(dto.Departure.Lat, dto.Departure.Lon)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewCoordinate(dto.Destination.Lat, dto.Destination.Lon)
	if err != nil {
		return nil, err
	}
	route, err := kernel.NewDistanceResult(dto.DistanceKm, dto.DurationMinutes)
	if err != nil {
		return nil, err
	}

	goodsType, err := kernel.ParseGoodsType(dto.Goods.Type)
	if err != nil {
		return nil, err
	}
	goods, err := order.NewGoods(dto.Goods.WeightKg, dto.Goods.VolumeM3, dto.Goods.DeclaredValue,
		goodsType, dto.Goods.SpecialRequirements)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var price *order.PriceSnapshot
	if p := dto.Price; p.Total != nil {
		snapshot, priceErr := order.NewPriceSnapshot(
			deref(p.Base), deref(p.Distance), deref(p.Weight), deref(p.Fee), deref(p.Tax), *p.Total)
		if priceErr != nil {
			return nil, priceErr
		}
		price = &snapshot
	}

	var position *kernel.Coordinate
	if dto.Position.Lat != nil && dto.Position.Lon != nil {
		c, posErr := kernel.NewCoordinate(*dto.Position.Lat, *dto.Position.Lon)
		if posErr != nil {
			return nil, posErr
		}
		position = &c
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		Number:             dto.Number,
		ShipperID:          shipperID,
		CarrierID:          carrierID,
		VehicleID:          vehicleID,
		AcceptedQuoteID:    acceptedQuoteID,
		Departure:          departure,
		Destination:        destination,
		Route:              route,
		Goods:              goods,
		PickupDate:         utc(dto.PickupDate),
		Status:             status,
		Price:              price,
		CurrentPosition:    position,
		DeliveryProof:      dto.DeliveryProof,
		CancellationReason: dto.CancellationReason,
		CreatedAt:          dto.CreatedAt.UTC(),
		UpdatedAt:          dto.UpdatedAt.UTC(),
		AssignedAt:         utc(dto.AssignedAt),
		StartedAt:          utc(dto.StartedAt),
		DeliveredAt:        utc(dto.DeliveredAt),
		CompletedAt:        utc(dto.CompletedAt),
		CancelledAt:        utc(dto.CancelledAt),
		Version:            dto.Version,
	})
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func ptr[T any](v T) *T {
	return &v
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
