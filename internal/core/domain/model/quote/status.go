package quote

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a quote.
//
//	BROUILLON ──send──> ENVOYE ──accept──> ACCEPTE
//	    │                  ├──reject/supersede──> REFUSE
//	    │                  ├──revise──> MODIFIE
//	    └──expire──────────┴──expire──> EXPIRE
//
// BROUILLON may also be superseded into REFUSE when a competing quote wins.
type Status int

const (
	Unknown Status = iota
	Draft
	Sent
	Accepted
	Rejected
	Expired
	Revised
)

// Action is a request to move a quote through its lifecycle.
type Action string

const (
	ActionSend      Action = "send"
	ActionAccept    Action = "accept"
	ActionReject    Action = "reject"
	ActionSupersede Action = "supersede"
	ActionExpire    Action = "expire"
	ActionRevise    Action = "revise"
)

var transitions = map[Status]map[Action]Status{
	Draft: {
		ActionSend:      Sent,
		ActionSupersede: Rejected,
		ActionExpire:    Expired,
	},
	Sent: {
		ActionAccept:    Accepted,
		ActionReject:    Rejected,
		ActionSupersede: Rejected,
		ActionExpire:    Expired,
		ActionRevise:    Revised,
	},
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "UNKNOWN",
		Draft:    "BROUILLON",
		Sent:     "ENVOYE",
		Accepted: "ACCEPTE",
		Rejected: "REFUSE",
		Expired:  "EXPIRE",
		Revised:  "MODIFIE",
	}
}

// Statuses returns every valid status.
func Statuses() []Status {
	return []Status{Draft, Sent, Accepted, Rejected, Expired, Revised}
}

// Actions returns every quote action.
func Actions() []Action {
	return []Action{ActionSend, ActionAccept, ActionReject, ActionSupersede, ActionExpire, ActionRevise}
}

// ActiveStatuses are the statuses in which a quote still competes for its order.
func ActiveStatuses() []Status {
	return []Status{Draft, Sent}
}

// ParseStatus converts a wire name such as "ENVOYE" into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid quote status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Revised {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsActive reports whether the quote is neither answered nor closed.
func (s Status) IsActive() bool {
	return s == Draft || s == Sent
}

// IsTerminal reports whether no action is possible any more.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Next applies action to s or fails with an InvalidTransitionError.
func (s Status) Next(action Action) (Status, error) {
	next, ok := transitions[s][action]
	if !ok {
		return Unknown, errs.NewInvalidTransitionError("quote", s.String(), string(action))
	}
	return next, nil
}
