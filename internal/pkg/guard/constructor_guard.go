// Package guard provides ConstructorGuard, a marker embedded in value objects,
// aggregates, commands and queries to tell constructor-built values apart from
// zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard records whether the enclosing value was built by its constructor.
// The zero value reports "not constructed".
//
// Example:
//
//	type Waypoint struct {
//	    coordinate kernel.Coordinate
//	    guard      guard.ConstructorGuard
//	}
//
//	func NewWaypoint(c kernel.Coordinate) Waypoint {
//	    return Waypoint{coordinate: c, guard: guard.NewConstructorGuard()}
//	}
//
//	func (w Waypoint) Validate() error {
//	    return w.guard.Validate(ErrWaypointNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard and validationError otherwise.
// A nil validationError is replaced by ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
