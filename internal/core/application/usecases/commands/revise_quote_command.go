package commands

import (
	"errors"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/guard"
)

var ErrReviseQuoteCommandIsNotConstructed = errors.New(
	"ReviseQuoteCommand must be created via NewReviseQuoteCommand constructor",
)

// ReviseQuoteCommand replaces a sent quote with a new draft carrying another price.
type ReviseQuoteCommand struct { //nolint:recvcheck //using for validation
	quoteID    kernel.UUID
	revisionID kernel.UUID
	actor      kernel.Actor
	breakdown  quote.Breakdown
	validUntil time.Time
	notes      string

	guard guard.ConstructorGuard
}

func NewReviseQuoteCommand(
	quoteID kernel.UUID,
	revisionID kernel.UUID,
	actor kernel.Actor,
	breakdown quote.Breakdown,
	validUntil time.Time,
	notes string,
) (ReviseQuoteCommand, error) {
	// the payload rules are those of a fresh submission
	payload := SubmitQuoteCommand{}
	if err := errors.Join(
		requireID("quoteID", quoteID),
		requireID("revisionID", revisionID),
		requireActor(actor),
		payload.setBreakdown(breakdown),
		payload.setValidUntil(validUntil),
		payload.setNotes(notes),
	); err != nil {
		return ReviseQuoteCommand{}, err
	}

	return ReviseQuoteCommand{
		quoteID:    quoteID,
		revisionID: revisionID,
		actor:      actor,
		breakdown:  payload.breakdown,
		validUntil: payload.validUntil,
		notes:      payload.notes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReviseQuoteCommand) Validate() error {
	return c.guard.Validate(ErrReviseQuoteCommandIsNotConstructed)
}

func (c ReviseQuoteCommand) QuoteID() kernel.UUID       { return c.quoteID }
func (c ReviseQuoteCommand) RevisionID() kernel.UUID    { return c.revisionID }
func (c ReviseQuoteCommand) Actor() kernel.Actor        { return c.actor }
func (c ReviseQuoteCommand) Breakdown() quote.Breakdown { return c.breakdown }
func (c ReviseQuoteCommand) ValidUntil() time.Time      { return c.validUntil }
func (c ReviseQuoteCommand) Notes() string              { return c.notes }
