package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"freight/internal/adapters/out/kafka"
	"freight/internal/adapters/out/postgres/pgtest"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafkago.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublish_OrderAndQuoteEvents(t *testing.T) {
	shipper := pgtest.Actor(t, kernel.RoleShipper)
	carrier := pgtest.Actor(t, kernel.RoleCarrier)
	o := pgtest.Order(t, shipper, pgtest.Now)
	q := pgtest.Quote(t, o, carrier, pgtest.Now.Add(48*time.Hour), pgtest.Now)
	require.NoError(t, q.Send(carrier, o.Status(), pgtest.Now))
	events := append(o.PullEvents(), q.PullEvents()...)
	require.Len(t, events, 3)

	fw := &fakeWriter{}
	p := kafka.NewEventPublisherWithWriter(fw, discardLogger())

	require.NoError(t, p.Publish(context.Background(), events...))
	require.Len(t, fw.msgs, 3)

	created := fw.msgs[0]
	assert.Equal(t, o.ID().String(), string(created.Key))
	assert.Equal(t, kafkago.Header{Key: kafka.HeaderEventName, Value: []byte("order.created")}, created.Headers[0])
	var body struct {
		Name        string `json:"name"`
		AggregateID string `json:"aggregateId"`
		Payload     struct {
			Number string `json:"number"`
			From   string `json:"from"`
			To     string `json:"to"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(created.Value, &body))
	assert.Equal(t, "order.created", body.Name)
	assert.Equal(t, o.Number(), body.Payload.Number)
	assert.Empty(t, body.Payload.From)
	assert.Equal(t, "DEMANDE", body.Payload.To)

	sent := fw.msgs[2]
	assert.Equal(t, q.ID().String(), string(sent.Key))
	var quoteBody struct {
		Name    string `json:"name"`
		Payload struct {
			OrderID string `json:"orderId"`
			From    string `json:"from"`
			To      string `json:"to"`
			Total   int64  `json:"total"`
		} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(sent.Value, &quoteBody))
	assert.Equal(t, "quote.status_changed", quoteBody.Name)
	assert.Equal(t, o.ID().String(), quoteBody.Payload.OrderID)
	assert.Equal(t, "BROUILLON", quoteBody.Payload.From)
	assert.Equal(t, "ENVOYE", quoteBody.Payload.To)
	assert.Equal(t, int64(306_800), quoteBody.Payload.Total)
}

func TestPublish_NothingToWrite(t *testing.T) {
	fw := &fakeWriter{err: errors.New("must not be called")}

	require.NoError(t, kafka.NewEventPublisherWithWriter(fw, discardLogger()).Publish(context.Background()))
}

func TestPublish_WriteFailureIsRetryable(t *testing.T) {
	o := pgtest.Order(t, pgtest.Actor(t, kernel.RoleShipper), pgtest.Now)
	fw := &fakeWriter{err: errors.New("leader not available")}

	err := kafka.NewEventPublisherWithWriter(fw, discardLogger()).Publish(context.Background(), o.PullEvents()...)

	require.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.True(t, errs.IsRetryable(err))
}
