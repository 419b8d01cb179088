package queries

import (
	"context"
	"sort"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchAddressesQueryHandler prefilters addresses with the circle's bounding
// box, which the (latitude, longitude) index serves, and keeps the rows inside
// the circle. The search is approximate near the poles and does not wrap
// around the antimeridian.
type SearchAddressesQueryHandler struct {
	db *gorm.DB
}

func NewSearchAddressesQueryHandler(db *gorm.DB) SearchAddressesQueryHandler {
	return SearchAddressesQueryHandler{db: db}
}

type addressRow struct {
	ID          uuid.UUID
	OwnerUserID string
	Label       string
	Line        string
	City        string
	Latitude    float64
	Longitude   float64
}

func (h SearchAddressesQueryHandler) Handle(ctx context.Context, query SearchAddressesQuery) ([]AddressMatch, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	region := query.Region()
	minLat, maxLat, minLon, maxLon := region.BoundingBox()

	tx := h.db.WithContext(ctx).
		Table("addresses").
		Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?", minLat, maxLat, minLon, maxLon)
	if query.Owner() != "" {
		tx = tx.Where("owner_user_id = ?", query.Owner())
	}

	var rows []addressRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, errs.NewStorageError("search addresses", err)
	}

	matches := make([]AddressMatch, 0, len(rows))
	for _, row := range rows {
		location, err := kernel.NewCoordinate(row.Latitude, row.Longitude)
		if err != nil {
			return nil, err
		}
		if !region.Contains(location) {
			continue
		}
		id, err := kernel.UUIDFromBytes(row.ID[:])
		if err != nil {
			return nil, err
		}
		matches = append(matches, AddressMatch{
			Address: ports.Address{
				ID:          id,
				OwnerUserID: row.OwnerUserID,
				Label:       row.Label,
				Line:        row.Line,
				City:        row.City,
				Location:    location,
			},
			DistanceKm: kernel.HaversineKm(region.Center(), location),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].DistanceKm != matches[j].DistanceKm {
			return matches[i].DistanceKm < matches[j].DistanceKm
		}
		return matches[i].Address.ID.String() < matches[j].Address.ID.String()
	})
	if len(matches) > query.Limit() {
		matches = matches[:query.Limit()]
	}
	return matches, nil
}
