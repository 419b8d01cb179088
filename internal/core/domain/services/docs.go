// Package services provides domain services that span several aggregates or
// are pure computations over domain values.
//
// The package includes:
//   - RouteOptimizer: deterministic nearest-neighbour ordering of 2..20 waypoints with a 2-opt pass
//   - PricingEstimator: fuel, toll, driver and carbon estimates plus automatic quote breakdowns
//   - VehicleMatcher: picks the smallest vehicle able to carry an order's goods
//   - QuoteAcceptor: accepts one quote, supersedes its competitors and confirms the order
//
// RouteOptimizer and PricingEstimator hold no mutable state and are safe for
// concurrent use.
package services
