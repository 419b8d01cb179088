package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/pkg/errs"
)

// Action is the class of operation a window counts.
type Action string

const (
	ActionOrderCreate     Action = "order_create"
	ActionQuoteSubmit     Action = "quote_submit"
	ActionQuoteAccept     Action = "quote_accept"
	ActionQuoteReject     Action = "quote_reject"
	ActionOrderCancel     Action = "order_cancel"
	ActionOrderTransition Action = "order_transition"
	ActionPosition        Action = "position"
)

func Actions() []Action {
	return []Action{
		ActionOrderCreate,
		ActionQuoteSubmit,
		ActionQuoteAccept,
		ActionQuoteReject,
		ActionOrderCancel,
		ActionOrderTransition,
		ActionPosition,
	}
}

// Policy is the window of one action class.
type Policy struct {
	Limit      int64
	Window     time.Duration
	FailClosed bool
}

func (p Policy) Validate() error {
	var errList []error
	if p.Limit < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", p.Limit, 1, "unbounded"))
	}
	if p.Window < time.Second {
		errList = append(errList, errs.NewValueIsOutOfRangeError("window", p.Window, time.Second, "unbounded"))
	}
	return errors.Join(errList...)
}

// DefaultPolicies fail open everywhere.
func DefaultPolicies() map[Action]Policy {
	return map[Action]Policy{
		ActionOrderCreate:     {Limit: 10, Window: time.Minute},
		ActionQuoteSubmit:     {Limit: 20, Window: time.Minute},
		ActionQuoteAccept:     {Limit: 10, Window: time.Minute},
		ActionQuoteReject:     {Limit: 20, Window: time.Minute},
		ActionOrderCancel:     {Limit: 5, Window: time.Minute},
		ActionOrderTransition: {Limit: 30, Window: time.Minute},
		ActionPosition:        {Limit: 120, Window: time.Minute},
	}
}

// HighValueActions are the classes that fail closed when
// RATE_LIMIT_FAIL_CLOSED_MUTATIONS is set.
func HighValueActions() []Action {
	return []Action{ActionQuoteAccept, ActionOrderCancel}
}

func validatePolicies(policies map[Action]Policy) error {
	var errList []error
	for _, a := range Actions() {
		p, ok := policies[a]
		if !ok {
			errList = append(errList, errs.NewValueIsRequiredError(fmt.Sprintf("policy %s", a)))
			continue
		}
		if err := p.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("policy %s: %w", a, err))
		}
	}
	return errors.Join(errList...)
}
