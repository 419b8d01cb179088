package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a state change.
// Aggregates buffer events until the unit of work commits and pulls them.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventRecorder buffers domain events inside an aggregate. Embed it by value.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event to the buffer.
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents returns the buffered events and clears the buffer.
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	return events
}

// PendingEvents returns a copy of the buffered events without clearing them.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return append([]DomainEvent(nil), r.events...)
}

// EventSource is an aggregate that buffers domain events.
type EventSource interface {
	PullEvents() []DomainEvent
}
