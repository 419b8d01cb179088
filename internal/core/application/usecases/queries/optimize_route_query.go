package queries

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrOptimizeRouteQueryIsNotConstructed = errors.New(
	"OptimizeRouteQuery must be created via NewOptimizeRouteQuery constructor",
)

// OptimizeRouteQuery orders 2 to 20 waypoints into a short open route starting
// at the first waypoint, and prices it for a vehicle class.
//
// Example:
//
//	query, err := NewOptimizeRouteQuery([]ports.Place{
//	    {Coordinate: &dakar}, {AddressID: &depotID}, {Coordinate: &thies},
//	}, vehicle.ClassLightTruck)
type OptimizeRouteQuery struct {
	waypoints []ports.Place
	class     vehicle.Class

	guard guard.ConstructorGuard
}

func NewOptimizeRouteQuery(waypoints []ports.Place, class vehicle.Class) (OptimizeRouteQuery, error) {
	if class == "" {
		class = vehicle.DefaultClass
	}

	n := len(waypoints)
	if n < services.MinWaypoints {
		return OptimizeRouteQuery{}, fmt.Errorf("%w: %w", services.ErrTooFewWaypoints,
			errs.NewValueIsOutOfRangeError("waypoints", n, services.MinWaypoints, services.MaxWaypoints))
	}
	if n > services.MaxWaypoints {
		return OptimizeRouteQuery{}, fmt.Errorf("%w: %w", services.ErrTooManyWaypoints,
			errs.NewValueIsOutOfRangeError("waypoints", n, services.MinWaypoints, services.MaxWaypoints))
	}

	var errList []error
	for i, w := range waypoints {
		if err := w.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("waypoints[%d]", i), err))
		}
	}
	if err := class.Validate(); err != nil {
		errList = append(errList, err)
	}
	if len(errList) > 0 {
		return OptimizeRouteQuery{}, errors.Join(errList...)
	}

	return OptimizeRouteQuery{
		waypoints: append([]ports.Place(nil), waypoints...),
		class:     class,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q OptimizeRouteQuery) Validate() error {
	return q.guard.Validate(ErrOptimizeRouteQueryIsNotConstructed)
}

func (q OptimizeRouteQuery) Waypoints() []ports.Place {
	return append([]ports.Place(nil), q.waypoints...)
}
func (q OptimizeRouteQuery) Class() vehicle.Class { return q.class }

// OptimizeRouteQueryResponse lists the waypoints in visiting order. Order[i] is
// the input index of the i-th stop.
type OptimizeRouteQueryResponse struct {
	Order              []int
	Waypoints          []kernel.Coordinate
	DistanceKm         float64
	OriginalDistanceKm float64
	SavingsKm          float64
	DurationMinutes    int
	Cost               services.CostEstimate
}
