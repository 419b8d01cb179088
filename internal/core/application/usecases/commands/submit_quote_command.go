package commands

import (
	"errors"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

// MaxQuoteNotesLength bounds free-text notes on a quote.
const MaxQuoteNotesLength = 1000

var ErrSubmitQuoteCommandIsNotConstructed = errors.New(
	"SubmitQuoteCommand must be created via NewSubmitQuoteCommand constructor",
)

// SubmitQuoteCommand creates a carrier quote for an order. With send set the
// draft is sent to the shipper in the same transaction.
//
// Example:
//
//	breakdown, _ := quote.NewBreakdown(150000, 60000, 20000, 0, 0, 30000, 46800)
//	cmd, err := NewSubmitQuoteCommand(kernel.NewUUID(), orderID, carrier, nil,
//	    breakdown, time.Now().Add(7*24*time.Hour), "", true)
type SubmitQuoteCommand struct { //nolint:recvcheck //using for validation
	quoteID    kernel.UUID
	orderID    kernel.UUID
	actor      kernel.Actor
	vehicleID  *kernel.UUID
	breakdown  quote.Breakdown
	validUntil time.Time
	notes      string
	send       bool

	guard guard.ConstructorGuard
}

func NewSubmitQuoteCommand(
	quoteID kernel.UUID,
	orderID kernel.UUID,
	actor kernel.Actor,
	vehicleID *kernel.UUID,
	breakdown quote.Breakdown,
	validUntil time.Time,
	notes string,
	send bool,
) (SubmitQuoteCommand, error) {
	cmd := SubmitQuoteCommand{
		vehicleID: vehicleID,
		send:      send,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		requireID("quoteID", quoteID),
		requireID("orderID", orderID),
		requireActor(actor),
		cmd.setBreakdown(breakdown),
		cmd.setValidUntil(validUntil),
		cmd.setNotes(notes),
	); err != nil {
		return SubmitQuoteCommand{}, err
	}
	cmd.quoteID = quoteID
	cmd.orderID = orderID
	cmd.actor = actor

	return cmd, nil
}

func (c SubmitQuoteCommand) Validate() error {
	return c.guard.Validate(ErrSubmitQuoteCommandIsNotConstructed)
}

func (c SubmitQuoteCommand) QuoteID() kernel.UUID       { return c.quoteID }
func (c SubmitQuoteCommand) OrderID() kernel.UUID       { return c.orderID }
func (c SubmitQuoteCommand) Actor() kernel.Actor        { return c.actor }
func (c SubmitQuoteCommand) VehicleID() *kernel.UUID    { return c.vehicleID }
func (c SubmitQuoteCommand) Breakdown() quote.Breakdown { return c.breakdown }
func (c SubmitQuoteCommand) ValidUntil() time.Time      { return c.validUntil }
func (c SubmitQuoteCommand) Notes() string              { return c.notes }
func (c SubmitQuoteCommand) Send() bool                 { return c.send }

func (c *SubmitQuoteCommand) setBreakdown(breakdown quote.Breakdown) error {
	if breakdown.Total() <= 0 {
		return errs.NewValueIsOutOfRangeError("total", breakdown.Total(), 1, "unbounded")
	}
	c.breakdown = breakdown
	return nil
}

func (c *SubmitQuoteCommand) setValidUntil(validUntil time.Time) error {
	if validUntil.IsZero() {
		return errs.NewValueIsRequiredError("validUntil")
	}
	c.validUntil = validUntil
	return nil
}

func (c *SubmitQuoteCommand) setNotes(notes string) error {
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxQuoteNotesLength {
		return errs.NewValueIsOutOfRangeError("notes length", len(notes), 0, MaxQuoteNotesLength)
	}
	c.notes = notes
	return nil
}
