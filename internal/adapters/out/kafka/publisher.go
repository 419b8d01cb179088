// Package kafka publishes order and quote domain events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"

	kafkago "github.com/segmentio/kafka-go"
)

// HeaderEventName carries the event name so consumers can route without
// decoding the payload.
const HeaderEventName = "event-name"

// Writer is the subset of kafka-go's Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// EventPublisher writes domain events as JSON messages keyed by aggregate id,
// so all events of one order (or quote) land on the same partition in order.
type EventPublisher struct {
	writer Writer
	logger *slog.Logger
}

func NewEventPublisher(brokers []string, topic string, logger *slog.Logger) *EventPublisher {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
	return NewEventPublisherWithWriter(w, logger)
}

// NewEventPublisherWithWriter allows injecting a test writer.
func NewEventPublisherWithWriter(w Writer, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{writer: w, logger: logger.With("component", "kafka_publisher")}
}

type envelope struct {
	EventID     string    `json:"eventId"`
	Name        string    `json:"name"`
	AggregateID string    `json:"aggregateId"`
	OccurredAt  time.Time `json:"occurredAt"`
	Payload     any       `json:"payload,omitempty"`
}

type orderStatusPayload struct {
	Number string `json:"number"`
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Action string `json:"action"`
	Actor  string `json:"actor"`
}

type quoteStatusPayload struct {
	OrderID   string `json:"orderId"`
	CarrierID string `json:"carrierId"`
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	Action    string `json:"action"`
	Total     int64  `json:"total"`
}

func (p *EventPublisher) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		msg, err := toMessage(e)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.ErrorContext(ctx, "kafka write failed", "events", len(msgs), "error", err)
		return errs.NewStorageError("publish events", err)
	}
	p.logger.DebugContext(ctx, "events published", "events", len(msgs))
	return nil
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(e kernel.DomainEvent) (kafkago.Message, error) {
	body, err := json.Marshal(envelope{
		EventID:     e.EventID().String(),
		Name:        e.EventName(),
		AggregateID: e.AggregateID().String(),
		OccurredAt:  e.OccurredAt().UTC(),
		Payload:     payloadOf(e),
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("marshal event %s: %w", e.EventName(), err)
	}

	return kafkago.Message{
		Key:     []byte(e.AggregateID().String()),
		Value:   body,
		Time:    e.OccurredAt(),
		Headers: []kafkago.Header{{Key: HeaderEventName, Value: []byte(e.EventName())}},
	}, nil
}

func payloadOf(e kernel.DomainEvent) any {
	switch ev := e.(type) {
	case order.StatusChanged:
		p := orderStatusPayload{
			Number: ev.Number(),
			To:     ev.To().String(),
			Action: string(ev.Action()),
			Actor:  ev.Actor(),
		}
		if ev.From() != order.Unknown {
			p.From = ev.From().String()
		}
		return p
	case quote.StatusChanged:
		p := quoteStatusPayload{
			OrderID:   ev.OrderID().String(),
			CarrierID: ev.CarrierID().String(),
			To:        ev.To().String(),
			Action:    string(ev.Action()),
			Total:     ev.Total(),
		}
		if ev.From() != quote.Unknown {
			p.From = ev.From().String()
		}
		return p
	default:
		return nil
	}
}
