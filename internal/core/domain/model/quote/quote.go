package quote

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const actionCreate Action = "create"

// ErrQuoteIsNotConstructed is returned when a Quote was not created through NewQuote or RestoreQuote.
var ErrQuoteIsNotConstructed = errors.New("Quote must be created via NewQuote constructor")

// Quote is a carrier's priced offer for one order, valid until validUntil.
// Once sent, only status and respondedAt change.
type Quote struct {
	id         kernel.UUID
	number     string
	orderID    kernel.UUID
	carrierID  kernel.UUID
	vehicleID  *kernel.UUID
	revisionOf *kernel.UUID
	breakdown  Breakdown
	notes      string
	validUntil time.Time
	status     Status

	createdAt   time.Time
	updatedAt   time.Time
	sentAt      *time.Time
	respondedAt *time.Time

	version int64
	kernel.EventRecorder
	guard guard.ConstructorGuard
}

// NewQuote creates a draft quote from carrier for orderID. validUntil must lie
// strictly after now. vehicleID is set by automatic pricing and may be nil.
func NewQuote(
	id kernel.UUID,
	orderID kernel.UUID,
	carrier kernel.Actor,
	vehicleID *kernel.UUID,
	breakdown Breakdown,
	validUntil time.Time,
	notes string,
	now time.Time,
) (*Quote, error) {
	if !carrier.IsCarrier() {
		return nil, errs.NewAuthorizationError(carrier.String(), "submit quote", "only carriers submit quotes")
	}

	q := &Quote{
		carrierID: carrier.ProfileID(),
		vehicleID: vehicleID,
		breakdown: breakdown,
		notes:     strings.TrimSpace(notes),
		status:    Draft,
		createdAt: now,
		updatedAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setID(id),
		q.setOrderID(orderID),
		q.setValidUntil(validUntil, now),
	); err != nil {
		return nil, err
	}
	q.number = fmt.Sprintf("DEV-%s-%s", now.UTC().Format("20060102"), id.ShortCode())
	q.Record(newStatusChanged(q, Unknown, actionCreate, now))

	return q, nil
}

// Snapshot is the full persisted state of a quote.
type Snapshot struct {
	ID          kernel.UUID
	Number      string
	OrderID     kernel.UUID
	CarrierID   kernel.UUID
	VehicleID   *kernel.UUID
	RevisionOf  *kernel.UUID
	Breakdown   Breakdown
	Notes       string
	ValidUntil  time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SentAt      *time.Time
	RespondedAt *time.Time
	Version     int64
}

// RestoreQuote rebuilds a quote from storage.
func RestoreQuote(s Snapshot) (*Quote, error) {
	q := &Quote{
		number:      s.Number,
		vehicleID:   s.VehicleID,
		revisionOf:  s.RevisionOf,
		breakdown:   s.Breakdown,
		notes:       s.Notes,
		validUntil:  s.ValidUntil,
		createdAt:   s.CreatedAt,
		updatedAt:   s.UpdatedAt,
		sentAt:      s.SentAt,
		respondedAt: s.RespondedAt,
		version:     s.Version,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setID(s.ID),
		q.setOrderID(s.OrderID),
		q.setCarrierID(s.CarrierID),
		q.setStatus(s.Status),
	); err != nil {
		return nil, err
	}
	if s.Number == "" {
		return nil, errs.NewValueIsRequiredError("number")
	}
	if s.ValidUntil.IsZero() {
		return nil, errs.NewValueIsRequiredError("validUntil")
	}

	return q, nil
}

// Snapshot exports the persisted state of the quote.
func (q *Quote) Snapshot() Snapshot {
	return Snapshot{
		ID:          q.id,
		Number:      q.number,
		OrderID:     q.orderID,
		CarrierID:   q.carrierID,
		VehicleID:   q.vehicleID,
		RevisionOf:  q.revisionOf,
		Breakdown:   q.breakdown,
		Notes:       q.notes,
		ValidUntil:  q.validUntil,
		Status:      q.status,
		CreatedAt:   q.createdAt,
		UpdatedAt:   q.updatedAt,
		SentAt:      q.sentAt,
		RespondedAt: q.respondedAt,
		Version:     q.version,
	}
}

func (q *Quote) Validate() error {
	if q == nil {
		return ErrQuoteIsNotConstructed
	}
	return q.guard.Validate(ErrQuoteIsNotConstructed)
}

func (q *Quote) IsEqual(other *Quote) bool {
	return other != nil && q.id.IsEqual(other.id)
}

func (q *Quote) ID() kernel.UUID          { return q.id }
func (q *Quote) Number() string           { return q.number }
func (q *Quote) OrderID() kernel.UUID     { return q.orderID }
func (q *Quote) CarrierID() kernel.UUID   { return q.carrierID }
func (q *Quote) VehicleID() *kernel.UUID  { return q.vehicleID }
func (q *Quote) RevisionOf() *kernel.UUID { return q.revisionOf }
func (q *Quote) Breakdown() Breakdown     { return q.breakdown }
func (q *Quote) Notes() string            { return q.notes }
func (q *Quote) ValidUntil() time.Time    { return q.validUntil }
func (q *Quote) Status() Status           { return q.status }
func (q *Quote) CreatedAt() time.Time     { return q.createdAt }
func (q *Quote) UpdatedAt() time.Time     { return q.updatedAt }
func (q *Quote) SentAt() *time.Time       { return q.sentAt }
func (q *Quote) RespondedAt() *time.Time  { return q.respondedAt }
func (q *Quote) Version() int64           { return q.version }

// AdvanceVersion is called by repositories after a successful conditional write.
func (q *Quote) AdvanceVersion() {
	q.version++
}

// IsOwnedBy reports whether actor is the carrier that submitted the quote.
func (q *Quote) IsOwnedBy(actor kernel.Actor) bool {
	return actor.IsCarrier() && actor.ProfileID().IsEqual(q.carrierID)
}

// IsExpiredAt reports whether the validity window has elapsed at now.
func (q *Quote) IsExpiredAt(now time.Time) bool {
	return !now.Before(q.validUntil)
}

// EffectiveStatus is the status a reader should see at now: active quotes past
// their validity window are EXPIRE whatever the stored status says.
func (q *Quote) EffectiveStatus(now time.Time) Status {
	if q.status.IsActive() && q.IsExpiredAt(now) {
		return Expired
	}
	return q.status
}

// Send submits a draft to the shipper. The order must still accept quotes and
// the validity window must still be open.
func (q *Quote) Send(carrier kernel.Actor, orderStatus order.Status, now time.Time) error {
	if _, err := q.status.Next(ActionSend); err != nil {
		return err
	}
	if !q.IsOwnedBy(carrier) {
		return errs.NewAuthorizationError(carrier.String(), string(ActionSend), "caller did not submit this quote")
	}
	if !orderStatus.AcceptsQuotes() {
		return errs.NewInvalidTransitionErrorWithReason("quote", q.status.String(), string(ActionSend),
			fmt.Sprintf("order in status %s does not accept quotes", orderStatus))
	}
	if q.IsExpiredAt(now) {
		return errs.NewExpiredError("quote", q.number, q.validUntil)
	}

	if err := q.apply(ActionSend, now); err != nil {
		return err
	}
	q.sentAt = &now
	return nil
}

// Accept marks the quote accepted. Expiry is checked before the stored status so
// an overdue quote always fails with ExpiredError.
func (q *Quote) Accept(now time.Time) error {
	if q.IsExpiredAt(now) {
		return errs.NewExpiredError("quote", q.number, q.validUntil)
	}
	if err := q.apply(ActionAccept, now); err != nil {
		return err
	}
	q.respondedAt = &now
	return nil
}

// Reject records an explicit refusal by the shipper, regardless of expiry.
func (q *Quote) Reject(now time.Time) error {
	if err := q.apply(ActionReject, now); err != nil {
		return err
	}
	q.respondedAt = &now
	return nil
}

// Supersede closes an active quote because a competing quote was accepted.
func (q *Quote) Supersede(now time.Time) error {
	if err := q.apply(ActionSupersede, now); err != nil {
		return err
	}
	q.respondedAt = &now
	return nil
}

// Expire converges the stored status of an overdue active quote.
func (q *Quote) Expire(now time.Time) error {
	if _, err := q.status.Next(ActionExpire); err != nil {
		return err
	}
	if !q.IsExpiredAt(now) {
		return errs.NewInvalidTransitionErrorWithReason("quote", q.status.String(), string(ActionExpire),
			"validity window is still open")
	}
	return q.apply(ActionExpire, now)
}

// Revise closes a sent quote as MODIFIE and returns its replacement draft with
// the new breakdown and validity.
func (q *Quote) Revise(
	carrier kernel.Actor,
	newID kernel.UUID,
	breakdown Breakdown,
	validUntil time.Time,
	notes string,
	now time.Time,
) (*Quote, error) {
	if _, err := q.status.Next(ActionRevise); err != nil {
		return nil, err
	}
	if !q.IsOwnedBy(carrier) {
		return nil, errs.NewAuthorizationError(carrier.String(), string(ActionRevise), "caller did not submit this quote")
	}

	revision, err := NewQuote(newID, q.orderID, carrier, q.vehicleID, breakdown, validUntil, notes, now)
	if err != nil {
		return nil, err
	}
	previous := q.id
	revision.revisionOf = &previous

	if err := q.apply(ActionRevise, now); err != nil {
		return nil, err
	}
	q.respondedAt = &now
	return revision, nil
}

func (q *Quote) apply(action Action, now time.Time) error {
	next, err := q.status.Next(action)
	if err != nil {
		return err
	}
	from := q.status
	q.status = next
	q.updatedAt = now
	q.Record(newStatusChanged(q, from, action, now))
	return nil
}

func (q *Quote) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	q.id = id
	return nil
}

func (q *Quote) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	q.orderID = orderID
	return nil
}

func (q *Quote) setCarrierID(carrierID kernel.UUID) error {
	if err := carrierID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("carrierID", err)
	}
	q.carrierID = carrierID
	return nil
}

func (q *Quote) setValidUntil(validUntil time.Time, now time.Time) error {
	if !validUntil.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("validUntil",
			fmt.Errorf("%s is not in the future", validUntil.UTC().Format(time.RFC3339)))
	}
	q.validUntil = validUntil
	return nil
}

func (q *Quote) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	q.status = status
	return nil
}
