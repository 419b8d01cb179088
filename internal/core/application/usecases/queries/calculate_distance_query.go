package queries

import (
	"errors"

	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrCalculateDistanceQueryIsNotConstructed = errors.New(
	"CalculateDistanceQuery must be created via NewCalculateDistanceQuery constructor",
)

// CalculateDistanceQuery measures the great-circle distance between two places
// and estimates the driving time at the average speed of a vehicle class.
type CalculateDistanceQuery struct {
	from  ports.Place
	to    ports.Place
	class vehicle.Class

	guard guard.ConstructorGuard
}

// NewCalculateDistanceQuery accepts an empty class as vehicle.DefaultClass.
func NewCalculateDistanceQuery(from ports.Place, to ports.Place, class vehicle.Class) (CalculateDistanceQuery, error) {
	if class == "" {
		class = vehicle.DefaultClass
	}

	var errList []error
	if err := from.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("from", err))
	}
	if err := to.Validate(); err != nil {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("to", err))
	}
	if err := class.Validate(); err != nil {
		errList = append(errList, err)
	}
	if len(errList) > 0 {
		return CalculateDistanceQuery{}, errors.Join(errList...)
	}

	return CalculateDistanceQuery{from: from, to: to, class: class, guard: guard.NewConstructorGuard()}, nil
}

func (q CalculateDistanceQuery) Validate() error {
	return q.guard.Validate(ErrCalculateDistanceQueryIsNotConstructed)
}

func (q CalculateDistanceQuery) From() ports.Place    { return q.from }
func (q CalculateDistanceQuery) To() ports.Place      { return q.to }
func (q CalculateDistanceQuery) Class() vehicle.Class { return q.class }

// CalculateDistanceQueryResponse carries the distance in both units.
type CalculateDistanceQueryResponse struct {
	Class           vehicle.Class
	DistanceKm      float64
	DistanceMiles   float64
	DurationMinutes int
}
