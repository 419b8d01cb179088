// Package order implements the TransportOrder aggregate.
//
// An order is created by a shipper in Requested (DEMANDE) and is moved only by
// the actions of the transition table in status.go; every guard lives on the
// aggregate so handlers never re-check status by hand. Disallowed actions fail
// with errs.InvalidTransitionError naming the current status and the action.
//
// Orders are never deleted. They end in Completed (TERMINE), Cancelled (ANNULE)
// or Refunded (REMBOURSE).
package order
