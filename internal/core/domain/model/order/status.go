package order

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a transport order. The numeric order follows
// the business progression, which lets storage sort by status.
//
//	DEMANDE ──submit──> DEVIS_ENVOYE ──accept──> DEVIS_ACCEPTE ──confirm──> CONFIRME
//	                        │  ^ submit                                       │ start
//	                        └──┘                                              v
//	TERMINE <──finalize── LIVRE <──deliver── EN_TRANSIT
//
// Every non-terminal status may be cancelled into ANNULE.
type Status int

const (
	Unknown Status = iota
	Requested
	QuoteSent
	QuoteAccepted
	QuoteRejected
	Confirmed
	InPreparation
	InTransit
	Delivered
	Completed
	Cancelled
	Disputed
	Refunded
)

// Action is a request to move an order through its lifecycle.
type Action string

const (
	ActionSubmitQuote    Action = "submit_quote"
	ActionAcceptQuote    Action = "accept_quote"
	ActionConfirm        Action = "confirm"
	ActionAssignVehicle  Action = "assign_vehicle"
	ActionStart          Action = "start"
	ActionUpdatePosition Action = "update_position"
	ActionDeliver        Action = "deliver"
	ActionFinalize       Action = "finalize"
	ActionCancel         Action = "cancel"
)

// transitions is the complete order state machine. A (status, action) pair
// that is missing here is an invalid transition.
var transitions = map[Status]map[Action]Status{
	Requested: {
		ActionSubmitQuote: QuoteSent,
		ActionCancel:      Cancelled,
	},
	QuoteSent: {
		ActionSubmitQuote: QuoteSent,
		ActionAcceptQuote: QuoteAccepted,
		ActionCancel:      Cancelled,
	},
	QuoteAccepted: {
		ActionConfirm: Confirmed,
		ActionCancel:  Cancelled,
	},
	QuoteRejected: {
		ActionCancel: Cancelled,
	},
	Confirmed: {
		ActionAssignVehicle: Confirmed,
		ActionStart:         InTransit,
		ActionCancel:        Cancelled,
	},
	InPreparation: {
		ActionCancel: Cancelled,
	},
	InTransit: {
		ActionUpdatePosition: InTransit,
		ActionDeliver:        Delivered,
		ActionCancel:         Cancelled,
	},
	Delivered: {
		ActionFinalize: Completed,
		ActionCancel:   Cancelled,
	},
	Disputed: {
		ActionCancel: Cancelled,
	},
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:       "UNKNOWN",
		Requested:     "DEMANDE",
		QuoteSent:     "DEVIS_ENVOYE",
		QuoteAccepted: "DEVIS_ACCEPTE",
		QuoteRejected: "DEVIS_REFUSE",
		Confirmed:     "CONFIRME",
		InPreparation: "EN_PREPARATION",
		InTransit:     "EN_TRANSIT",
		Delivered:     "LIVRE",
		Completed:     "TERMINE",
		Cancelled:     "ANNULE",
		Disputed:      "LITIGE",
		Refunded:      "REMBOURSE",
	}
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{
		Requested, QuoteSent, QuoteAccepted, QuoteRejected, Confirmed, InPreparation,
		InTransit, Delivered, Completed, Cancelled, Disputed, Refunded,
	}
}

// Actions returns every action known to the state machine.
func Actions() []Action {
	return []Action{
		ActionSubmitQuote, ActionAcceptQuote, ActionConfirm, ActionAssignVehicle, ActionStart,
		ActionUpdatePosition, ActionDeliver, ActionFinalize, ActionCancel,
	}
}

// ParseStatus converts a wire name such as "EN_TRANSIT" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further action is possible.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Refunded
}

// AcceptsQuotes reports whether carriers may currently send quotes for the order.
func (s Status) AcceptsQuotes() bool {
	_, ok := transitions[s][ActionSubmitQuote]
	return ok
}

// HasAssignment reports whether an order in this status has a carrier by construction.
func (s Status) HasAssignment() bool {
	switch s {
	case Confirmed, InPreparation, InTransit, Delivered, Completed, Disputed, Refunded:
		return true
	default:
		return false
	}
}

// Next applies action to s and returns the resulting status. Unlisted pairs fail
// with an InvalidTransitionError naming both.
func (s Status) Next(action Action) (Status, error) {
	next, ok := transitions[s][action]
	if !ok {
		return Unknown, errs.NewInvalidTransitionError("order", s.String(), string(action))
	}
	return next, nil
}

// Allowed lists the actions accepted from s, sorted as in Actions.
func (s Status) Allowed() []Action {
	var allowed []Action
	for _, a := range Actions() {
		if _, ok := transitions[s][a]; ok {
			allowed = append(allowed, a)
		}
	}
	return allowed
}
