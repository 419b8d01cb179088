// Package addressrepo stores geocoded addresses and answers radius searches.
package addressrepo

import (
	"context"
	"errors"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AddressDTO is the "addresses" row. Latitude and longitude are indexed for
// the bounding-box prefilter of nearby searches.
type AddressDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerUserID string    `gorm:"size:64;index"`
	Label       string    `gorm:"size:100"`
	Line        string    `gorm:"size:255"`
	City        string    `gorm:"size:100"`
	Latitude    float64   `gorm:"index:idx_addresses_lat_lon"`
	Longitude   float64   `gorm:"index:idx_addresses_lat_lon"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

type GormAddressRepository struct {
	db *gorm.DB
}

func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) Add(ctx context.Context, a ports.Address) error {
	if err := errors.Join(a.ID.Validate(), a.Location.Validate()); err != nil {
		return err
	}

	dto := FromAddress(a)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap("add address", "address", err)
	}
	return nil
}

func (r *GormAddressRepository) Get(ctx context.Context, id kernel.UUID) (ports.Address, error) {
	if err := id.Validate(); err != nil {
		return ports.Address{}, err
	}

	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Address{}, errs.NewObjectNotFoundError("address", id.String())
		}
		return ports.Address{}, dberr.Wrap("get address", "address", err)
	}
	return dto.ToAddress()
}

// FromAddress maps an address to its row.
func FromAddress(a ports.Address) AddressDTO {
	return AddressDTO{
		ID:          a.ID.Bytes(),
		OwnerUserID: a.OwnerUserID,
		Label:       a.Label,
		Line:        a.Line,
		City:        a.City,
		Latitude:    a.Location.Latitude(),
		Longitude:   a.Location.Longitude(),
	}
}

// ToAddress maps a row back to an address. Read models reuse it.
func (dto AddressDTO) ToAddress() (ports.Address, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Address{}, err
	}
	location, err := kernel.NewCoordinate(dto.Latitude, dto.Longitude)
	if err != nil {
		return ports.Address{}, err
	}
	return ports.Address{
		ID:          id,
		OwnerUserID: dto.OwnerUserID,
		Label:       dto.Label,
		Line:        dto.Line,
		City:        dto.City,
		Location:    location,
	}, nil
}
