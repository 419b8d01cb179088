package queries

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentLookups = 8

// RouteOptimizer orders waypoints.
type RouteOptimizer interface {
	Optimize(waypoints []kernel.Coordinate) (services.OptimizedRoute, error)
}

// CostEstimator prices a distance for a vehicle class.
type CostEstimator interface {
	Estimate(distanceKm float64, class vehicle.Class) services.CostEstimate
}

// OptimizeRouteQueryHandler resolves stored addresses concurrently, orders the
// waypoints and prices the resulting route.
type OptimizeRouteQueryHandler struct {
	addresses ports.AddressRepository
	optimizer RouteOptimizer
	estimator CostEstimator
}

func NewOptimizeRouteQueryHandler(
	addresses ports.AddressRepository,
	optimizer RouteOptimizer,
	estimator CostEstimator,
) OptimizeRouteQueryHandler {
	return OptimizeRouteQueryHandler{addresses: addresses, optimizer: optimizer, estimator: estimator}
}

func (h OptimizeRouteQueryHandler) Handle(ctx context.Context, query OptimizeRouteQuery) (OptimizeRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return OptimizeRouteQueryResponse{}, err
	}

	places := query.Waypoints()
	coords := make([]kernel.Coordinate, len(places))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, p := range places {
		g.Go(func() error {
			c, err := p.Resolve(gctx, h.addresses)
			if err != nil {
				return err
			}
			coords[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return OptimizeRouteQueryResponse{}, err
	}

	route, err := h.optimizer.Optimize(coords)
	if err != nil {
		return OptimizeRouteQueryResponse{}, err
	}

	ordered := make([]kernel.Coordinate, 0, len(route.Order))
	for _, i := range route.Order {
		ordered = append(ordered, coords[i])
	}
	cost := h.estimator.Estimate(route.DistanceKm, query.Class())

	return OptimizeRouteQueryResponse{
		Order:              route.Order,
		Waypoints:          ordered,
		DistanceKm:         route.DistanceKm,
		OriginalDistanceKm: route.OriginalDistanceKm,
		SavingsKm:          route.SavingsKm(),
		DurationMinutes:    cost.DurationMinutes,
		Cost:               cost,
	}, nil
}
