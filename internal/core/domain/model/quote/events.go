package quote

import (
	"time"

	"freight/internal/core/domain/model/kernel"
)

const (
	EventCreated       = "quote.created"
	EventStatusChanged = "quote.status_changed"
)

// StatusChanged is recorded on creation and on every status change of a quote.
type StatusChanged struct {
	id         kernel.UUID
	quoteID    kernel.UUID
	orderID    kernel.UUID
	carrierID  kernel.UUID
	from       Status
	to         Status
	action     Action
	total      int64
	occurredAt time.Time
}

func newStatusChanged(q *Quote, from Status, action Action, at time.Time) StatusChanged {
	return StatusChanged{
		id:         kernel.NewUUID(),
		quoteID:    q.id,
		orderID:    q.orderID,
		carrierID:  q.carrierID,
		from:       from,
		to:         q.status,
		action:     action,
		total:      q.breakdown.Total(),
		occurredAt: at,
	}
}

func (e StatusChanged) EventID() kernel.UUID     { return e.id }
func (e StatusChanged) AggregateID() kernel.UUID { return e.quoteID }
func (e StatusChanged) OccurredAt() time.Time    { return e.occurredAt }

func (e StatusChanged) EventName() string {
	if e.from == Unknown {
		return EventCreated
	}
	return EventStatusChanged
}

func (e StatusChanged) OrderID() kernel.UUID   { return e.orderID }
func (e StatusChanged) CarrierID() kernel.UUID { return e.carrierID }
func (e StatusChanged) From() Status           { return e.from }
func (e StatusChanged) To() Status             { return e.to }
func (e StatusChanged) Action() Action         { return e.action }
func (e StatusChanged) Total() int64           { return e.total }
