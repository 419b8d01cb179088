// Package vehiclerepo reads carrier vehicles for matching and assignment.
package vehiclerepo

import (
	"context"
	"errors"
	"strings"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleDTO is the "vehicles" row. Goods types are stored comma separated.
type VehicleDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarrierID  uuid.UUID `gorm:"type:uuid;index"`
	Plate      string    `gorm:"size:20"`
	Class      string    `gorm:"size:30"`
	CapacityKg float64
	VolumeM3   float64
	GoodsTypes string `gorm:"size:200"`
	Available  bool   `gorm:"index"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Add(ctx context.Context, v *vehicle.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}

	dto := fromDomain(v)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap("add vehicle", "vehicle", err)
	}
	return nil
}

func (r *GormVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*vehicle.Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("vehicle", id.String())
		}
		return nil, dberr.Wrap("get vehicle", "vehicle", err)
	}
	return toDomain(dto)
}

// GetAvailableByCarrier lists available vehicles, smallest capacity first.
func (r *GormVehicleRepository) GetAvailableByCarrier(ctx context.Context, carrierID kernel.UUID) ([]*vehicle.Vehicle, error) {
	if err := carrierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []VehicleDTO
	if err := r.db.WithContext(ctx).
		Where("carrier_id = ? AND available = ?", carrierID.Bytes(), true).
		Order("capacity_kg, id").
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap("list vehicles", "vehicle", err)
	}

	vehicles := make([]*vehicle.Vehicle, 0, len(dtos))
	for _, dto := range dtos {
		v, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

func fromDomain(v *vehicle.Vehicle) VehicleDTO {
	types := make([]string, 0, len(v.GoodsTypes()))
	for _, t := range v.GoodsTypes() {
		types = append(types, t.String())
	}
	return VehicleDTO{
		ID:         v.ID().Bytes(),
		CarrierID:  v.CarrierID().Bytes(),
		Plate:      v.Plate(),
		Class:      v.Class().String(),
		CapacityKg: v.CapacityKg(),
		VolumeM3:   v.VolumeM3(),
		GoodsTypes: strings.Join(types, ","),
		Available:  v.IsAvailable(),
	}
}

func toDomain(dto VehicleDTO) (*vehicle.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}
	class, err := vehicle.ParseClass(dto.Class)
	if err != nil {
		return nil, err
	}

	var goodsTypes []kernel.GoodsType
	for _, name := range strings.Split(dto.GoodsTypes, ",") {
		if name == "" {
			continue
		}
		t, parseErr := kernel.ParseGoodsType(name)
		if parseErr != nil {
			return nil, parseErr
		}
		goodsTypes = append(goodsTypes, t)
	}

	return vehicle.NewVehicle(id, carrierID, dto.Plate, class, dto.CapacityKg, dto.VolumeM3, goodsTypes, dto.Available)
}
