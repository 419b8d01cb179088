package order

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

const (
	EventCreated       = "order.created"
	EventStatusChanged = "order.status_changed"
)

// StatusChanged is recorded for every status-changing action, including creation
// (From is Unknown and the name is EventCreated).
type StatusChanged struct {
	id         kernel.UUID
	orderID    kernel.UUID
	number     string
	from       Status
	to         Status
	action     Action
	actor      string
	occurredAt time.Time
}

func newStatusChanged(o *Order, from Status, action Action, actor kernel.Actor, at time.Time) StatusChanged {
	return StatusChanged{
		id:         kernel.NewUUID(),
		orderID:    o.id,
		number:     o.number,
		from:       from,
		to:         o.status,
		action:     action,
		actor:      actor.String(),
		occurredAt: at,
	}
}

func (e StatusChanged) EventID() kernel.UUID {
	return e.id
}

func (e StatusChanged) EventName() string {
	if e.from == Unknown {
		return EventCreated
	}
	return EventStatusChanged
}

func (e StatusChanged) AggregateID() kernel.UUID {
	return e.orderID
}

func (e StatusChanged) OccurredAt() time.Time {
	return e.occurredAt
}

func (e StatusChanged) Number() string { return e.number }
func (e StatusChanged) From() Status   { return e.from }
func (e StatusChanged) To() Status     { return e.to }
func (e StatusChanged) Action() Action { return e.action }
func (e StatusChanged) Actor() string  { return e.actor }
