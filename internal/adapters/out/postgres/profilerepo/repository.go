// Package profilerepo maps authenticated users to shipper and carrier profiles.
package profilerepo

import (
	"context"
	"fmt"
	"time"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileDTO is the "profiles" row.
type ProfileDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"size:64;index"`
	Role      string    `gorm:"size:20"`
	CreatedAt time.Time
}

func (ProfileDTO) TableName() string {
	return "profiles"
}

type GormProfileRepository struct {
	db *gorm.DB
}

func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

func (r *GormProfileRepository) Add(ctx context.Context, p ports.Profile) error {
	if err := p.ID.Validate(); err != nil {
		return err
	}
	if p.Role != kernel.RoleShipper && p.Role != kernel.RoleCarrier {
		return errs.NewValueIsInvalidError("role")
	}

	dto := ProfileDTO{ID: p.ID.Bytes(), UserID: p.UserID, Role: string(p.Role)}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap("add profile", "profile", err)
	}
	return nil
}

// FindByUser returns the user's profiles, shipper profiles first, then by creation.
func (r *GormProfileRepository) FindByUser(ctx context.Context, userID string) ([]ports.Profile, error) {
	if userID == "" {
		return nil, errs.NewValueIsRequiredError("userID")
	}

	var dtos []ProfileDTO
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(fmt.Sprintf("CASE role WHEN '%s' THEN 0 ELSE 1 END, created_at, id", kernel.RoleShipper)).
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap("find profiles", "profile", err)
	}

	profiles := make([]ports.Profile, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, ports.Profile{ID: id, UserID: dto.UserID, Role: kernel.Role(dto.Role)})
	}
	return profiles, nil
}
