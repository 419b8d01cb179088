package services

import (
	"errors"
	"fmt"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

const (
	MinWaypoints = 2
	MaxWaypoints = 20

	maxTwoOptPasses = 50
	improvementEps  = 1e-9
)

var (
	ErrTooFewWaypoints  = errors.New("too few waypoints")
	ErrTooManyWaypoints = errors.New("too many waypoints")
)

// OptimizedRoute is a visiting order over the input waypoints.
// Order is a permutation of the input indices and always starts with 0.
type OptimizedRoute struct {
	Order              []int
	DistanceKm         float64
	OriginalDistanceKm float64
}

// SavingsKm is the distance saved compared with visiting waypoints in input order.
func (r OptimizedRoute) SavingsKm() float64 {
	return r.OriginalDistanceKm - r.DistanceKm
}

// RouteOptimizer orders waypoints of an open route that starts at waypoint 0.
//
// The baseline is nearest neighbour: from the current stop, go to the closest
// unvisited stop, ties going to the lowest index. A 2-opt pass then reverses
// segments while that strictly shortens the route. Both steps scan indices in
// ascending order, so identical input always yields identical output.
type RouteOptimizer struct {
	twoOpt bool
}

// NewRouteOptimizer returns an optimizer with the 2-opt pass enabled.
func NewRouteOptimizer() RouteOptimizer {
	return RouteOptimizer{twoOpt: true}
}

// NewNearestNeighbourOptimizer returns an optimizer without the 2-opt pass.
func NewNearestNeighbourOptimizer() RouteOptimizer {
	return RouteOptimizer{}
}

// Optimize returns the visiting order and its total great-circle distance.
// It fails with ErrTooFewWaypoints or ErrTooManyWaypoints outside 2..20 waypoints,
// both also matching errs.ErrValueIsOutOfRange.
func (r RouteOptimizer) Optimize(waypoints []kernel.Coordinate) (OptimizedRoute, error) {
	n := len(waypoints)
	if n < MinWaypoints {
		return OptimizedRoute{}, fmt.Errorf("%w: %w", ErrTooFewWaypoints,
			errs.NewValueIsOutOfRangeError("waypoints", n, MinWaypoints, MaxWaypoints))
	}
	if n > MaxWaypoints {
		return OptimizedRoute{}, fmt.Errorf("%w: %w", ErrTooManyWaypoints,
			errs.NewValueIsOutOfRangeError("waypoints", n, MinWaypoints, MaxWaypoints))
	}
	for i, w := range waypoints {
		if err := w.Validate(); err != nil {
			return OptimizedRoute{}, fmt.Errorf("waypoint %d: %w", i, err)
		}
	}

	dist := distanceMatrix(waypoints)
	tour := nearestNeighbour(dist)
	if r.twoOpt {
		twoOpt(tour, dist)
	}

	identity := make([]int, n)
	for i := range identity {
		identity[i] = i
	}

	return OptimizedRoute{
		Order:              tour,
		DistanceKm:         pathLength(tour, dist),
		OriginalDistanceKm: pathLength(identity, dist),
	}, nil
}

func distanceMatrix(waypoints []kernel.Coordinate) [][]float64 {
	n := len(waypoints)
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := kernel.HaversineKm(waypoints[i], waypoints[j])
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func nearestNeighbour(dist [][]float64) []int {
	n := len(dist)
	visited := make([]bool, n)
	tour := make([]int, 0, n)

	current := 0
	visited[0] = true
	tour = append(tour, 0)
	for len(tour) < n {
		next := -1
		for candidate := 0; candidate < n; candidate++ {
			if visited[candidate] {
				continue
			}
			if next == -1 || dist[current][candidate] < dist[current][next] {
				next = candidate
			}
		}
		visited[next] = true
		tour = append(tour, next)
		current = next
	}
	return tour
}

// twoOpt improves an open path in place, keeping tour[0] fixed.
func twoOpt(tour []int, dist [][]float64) {
	n := len(tour)
	for pass := 0; pass < maxTwoOptPasses; pass++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				before := dist[tour[i-1]][tour[i]]
				after := dist[tour[i-1]][tour[j]]
				if j+1 < n {
					before += dist[tour[j]][tour[j+1]]
					after += dist[tour[i]][tour[j+1]]
				}
				if after < before-improvementEps {
					reverse(tour[i : j+1])
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func pathLength(tour []int, dist [][]float64) float64 {
	total := 0.0
	for i := 1; i < len(tour); i++ {
		total += dist[tour[i-1]][tour[i]]
	}
	return total
}
