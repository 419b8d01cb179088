// Package kernel provides the shared domain primitives of the freight marketplace.
//
// The package includes:
//   - UUID: identifier value object used by every aggregate
//   - Coordinate, DistanceResult, Region: great-circle geometry (haversine, unit conversion, containment)
//   - Actor, Role: the resolved caller of a lifecycle operation
//   - DomainEvent: the contract for events recorded by aggregates
//
// Geometry is pure and allocation-light; every function here is safe for
// concurrent use without synchronization.
package kernel
