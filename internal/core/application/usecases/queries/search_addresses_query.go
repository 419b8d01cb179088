package queries

import (
	"errors"
	"math"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	MaxSearchRadiusKm  = 200
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

var ErrSearchAddressesQueryIsNotConstructed = errors.New(
	"SearchAddressesQuery must be created via NewSearchAddressesQuery constructor",
)

// SearchAddressesQuery finds stored addresses within radiusKm of center,
// nearest first. A non-empty owner restricts the search to that user's book.
type SearchAddressesQuery struct {
	region kernel.CircleRegion
	limit  int
	owner  string

	guard guard.ConstructorGuard
}

// NewSearchAddressesQuery requires 0 < radiusKm <= MaxSearchRadiusKm; a zero
// limit becomes DefaultSearchLimit.
func NewSearchAddressesQuery(center kernel.Coordinate, radiusKm float64, limit int, owner string) (SearchAddressesQuery, error) {
	if limit == 0 {
		limit = DefaultSearchLimit
	}

	var errList []error
	if err := center.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsRequiredErrorWithCause("center", err))
	}
	if math.IsNaN(radiusKm) || radiusKm <= 0 || radiusKm > MaxSearchRadiusKm {
		errList = append(errList, errs.NewValueIsOutOfRangeError("radiusKm", radiusKm, 0, MaxSearchRadiusKm))
	}
	if limit < 1 || limit > MaxSearchLimit {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxSearchLimit))
	}
	if len(errList) > 0 {
		return SearchAddressesQuery{}, errors.Join(errList...)
	}

	region, err := kernel.NewCircleRegion(center, radiusKm)
	if err != nil {
		return SearchAddressesQuery{}, err
	}
	return SearchAddressesQuery{region: region, limit: limit, owner: owner, guard: guard.NewConstructorGuard()}, nil
}

func (q SearchAddressesQuery) Validate() error {
	return q.guard.Validate(ErrSearchAddressesQueryIsNotConstructed)
}

func (q SearchAddressesQuery) Region() kernel.CircleRegion { return q.region }
func (q SearchAddressesQuery) Limit() int                  { return q.limit }
func (q SearchAddressesQuery) Owner() string               { return q.owner }

// AddressMatch is an address and its great-circle distance to the search centre.
type AddressMatch struct {
	Address    ports.Address
	DistanceKm float64
}
