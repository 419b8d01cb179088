package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	// MinCancellationReasonLength is counted in characters after trimming.
	MinCancellationReasonLength = 10
	MaxCancellationReasonLength = 500

	actionCreate Action = "create"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Order is the transport order aggregate root.
//
// Invariants:
//   - carrierID and vehicleID are nil until the order is Confirmed
//   - price is nil until a quote is accepted
//   - status changes only through the transition table
//   - version grows by one with every persisted change
type Order struct {
	id              kernel.UUID
	number          string
	shipperID       kernel.UUID
	carrierID       *kernel.UUID
	vehicleID       *kernel.UUID
	acceptedQuoteID *kernel.UUID

	departure   kernel.Coordinate
	destination kernel.Coordinate
	route       kernel.DistanceResult
	goods       Goods
	pickupDate  *time.Time

	status             Status
	price              *PriceSnapshot
	currentPosition    *kernel.Coordinate
	deliveryProof      string
	cancellationReason string

	createdAt   time.Time
	updatedAt   time.Time
	assignedAt  *time.Time
	startedAt   *time.Time
	deliveredAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	version int64
	kernel.EventRecorder
	guard guard.ConstructorGuard
}

// NewOrder creates an order in Requested for the given shipper and stores the
// great-circle distance between departure and destination as its route snapshot.
//
// Example:
//
//	goods, _ := order.NewGoods(2000, 12, 1_500_000, kernel.GoodsGeneral, "")
//	o, err := order.NewOrder(kernel.NewUUID(), shipper, dakar, thies, goods, nil, time.Now())
//	fmt.Println(o.Number()) // CMD-20260115-550E8400
func NewOrder(
	id kernel.UUID,
	shipper kernel.Actor,
	departure kernel.Coordinate,
	destination kernel.Coordinate,
	goods Goods,
	pickupDate *time.Time,
	now time.Time,
) (*Order, error) {
	if !shipper.IsShipper() {
		return nil, errs.NewAuthorizationError(shipper.String(), "create order", "only shippers create orders")
	}

	o := &Order{
		status:     Requested,
		pickupDate: pickupDate,
		createdAt:  now,
		updatedAt:  now,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setShipper(shipper.ProfileID()),
		o.setRoute(departure, destination),
		o.setGoods(goods),
	); err != nil {
		return nil, err
	}
	o.number = fmt.Sprintf("CMD-%s-%s", now.UTC().Format("20060102"), id.ShortCode())
	o.Record(newStatusChanged(o, Unknown, actionCreate, shipper, now))

	return o, nil
}

// Snapshot is the full persisted state of an order. Repositories read it with
// Order.Snapshot and rebuild aggregates with RestoreOrder.
type Snapshot struct {
	ID                 kernel.UUID
	Number             string
	ShipperID          kernel.UUID
	CarrierID          *kernel.UUID
	VehicleID          *kernel.UUID
	AcceptedQuoteID    *kernel.UUID
	Departure          kernel.Coordinate
	Destination        kernel.Coordinate
	Route              kernel.DistanceResult
	Goods              Goods
	PickupDate         *time.Time
	Status             Status
	Price              *PriceSnapshot
	CurrentPosition    *kernel.Coordinate
	DeliveryProof      string
	CancellationReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
	AssignedAt         *time.Time
	StartedAt          *time.Time
	DeliveredAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	Version            int64
}

// RestoreOrder rebuilds an order from storage and re-checks the invariants that
// tie status to assignment and price.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		number:             s.Number,
		carrierID:          s.CarrierID,
		vehicleID:          s.VehicleID,
		acceptedQuoteID:    s.AcceptedQuoteID,
		route:              s.Route,
		pickupDate:         s.PickupDate,
		price:              s.Price,
		currentPosition:    s.CurrentPosition,
		deliveryProof:      s.DeliveryProof,
		cancellationReason: s.CancellationReason,
		createdAt:          s.CreatedAt,
		updatedAt:          s.UpdatedAt,
		assignedAt:         s.AssignedAt,
		startedAt:          s.StartedAt,
		deliveredAt:        s.DeliveredAt,
		completedAt:        s.CompletedAt,
		cancelledAt:        s.CancelledAt,
		version:            s.Version,
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setShipper(s.ShipperID),
		o.setRoute(s.Departure, s.Destination),
		o.setGoods(s.Goods),
		o.setStatus(s.Status),
	); err != nil {
		return nil, err
	}
	if s.Number == "" {
		return nil, errs.NewValueIsRequiredError("number")
	}
	if o.status.HasAssignment() && o.carrierID == nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("carrierID", fmt.Errorf("%s requires a carrier", o.status))
	}
	if !o.status.HasAssignment() && o.status != Cancelled && (o.carrierID != nil || o.vehicleID != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("carrierID", fmt.Errorf("%s cannot have a carrier", o.status))
	}
	if (o.price == nil) != (o.acceptedQuoteID == nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("price", errors.New("price and accepted quote go together"))
	}

	return o, nil
}

// Snapshot exports the persisted state of the order.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                 o.id,
		Number:             o.number,
		ShipperID:          o.shipperID,
		CarrierID:          o.carrierID,
		VehicleID:          o.vehicleID,
		AcceptedQuoteID:    o.acceptedQuoteID,
		Departure:          o.departure,
		Destination:        o.destination,
		Route:              o.route,
		Goods:              o.goods,
		PickupDate:         o.pickupDate,
		Status:             o.status,
		Price:              o.price,
		CurrentPosition:    o.currentPosition,
		DeliveryProof:      o.deliveryProof,
		CancellationReason: o.cancellationReason,
		CreatedAt:          o.createdAt,
		UpdatedAt:          o.updatedAt,
		AssignedAt:         o.assignedAt,
		StartedAt:          o.startedAt,
		DeliveredAt:        o.deliveredAt,
		CompletedAt:        o.completedAt,
		CancelledAt:        o.cancelledAt,
		Version:            o.version,
	}
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares orders by identity.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                     { return o.id }
func (o *Order) Number() string                      { return o.number }
func (o *Order) ShipperID() kernel.UUID              { return o.shipperID }
func (o *Order) CarrierID() *kernel.UUID             { return o.carrierID }
func (o *Order) VehicleID() *kernel.UUID             { return o.vehicleID }
func (o *Order) AcceptedQuoteID() *kernel.UUID       { return o.acceptedQuoteID }
func (o *Order) Departure() kernel.Coordinate        { return o.departure }
func (o *Order) Destination() kernel.Coordinate      { return o.destination }
func (o *Order) Route() kernel.DistanceResult        { return o.route }
func (o *Order) Goods() Goods                        { return o.goods }
func (o *Order) PickupDate() *time.Time              { return o.pickupDate }
func (o *Order) Status() Status                      { return o.status }
func (o *Order) Price() *PriceSnapshot               { return o.price }
func (o *Order) CurrentPosition() *kernel.Coordinate { return o.currentPosition }
func (o *Order) DeliveryProof() string               { return o.deliveryProof }
func (o *Order) CancellationReason() string          { return o.cancellationReason }
func (o *Order) CreatedAt() time.Time                { return o.createdAt }
func (o *Order) UpdatedAt() time.Time                { return o.updatedAt }
func (o *Order) AssignedAt() *time.Time              { return o.assignedAt }
func (o *Order) StartedAt() *time.Time               { return o.startedAt }
func (o *Order) DeliveredAt() *time.Time             { return o.deliveredAt }
func (o *Order) CompletedAt() *time.Time             { return o.completedAt }
func (o *Order) CancelledAt() *time.Time             { return o.cancelledAt }

// TotalPrice returns the accepted total, or nil before acceptance.
func (o *Order) TotalPrice() *int64 {
	if o.price == nil {
		return nil
	}
	total := o.price.Total()
	return &total
}

// Version is the optimistic concurrency version last read from or written to storage.
func (o *Order) Version() int64 {
	return o.version
}

// AdvanceVersion is called by repositories after a successful conditional write.
func (o *Order) AdvanceVersion() {
	o.version++
}

// IsShipper reports whether actor owns the order.
func (o *Order) IsShipper(actor kernel.Actor) bool {
	return actor.IsShipper() && actor.ProfileID().IsEqual(o.shipperID)
}

// IsAssignedCarrier reports whether actor is the carrier the order is assigned to.
func (o *Order) IsAssignedCarrier(actor kernel.Actor) bool {
	return actor.IsCarrier() && o.carrierID != nil && actor.ProfileID().IsEqual(*o.carrierID)
}

// IsParticipant reports whether actor is the shipper or the assigned carrier.
func (o *Order) IsParticipant(actor kernel.Actor) bool {
	return o.IsShipper(actor) || o.IsAssignedCarrier(actor)
}

// CanSee reports whether actor may read the order. Carriers may read orders that
// still accept quotes so they can price them.
func (o *Order) CanSee(actor kernel.Actor) bool {
	return actor.IsAdmin() || o.IsParticipant(actor) || (actor.IsCarrier() && o.status.AcceptsQuotes())
}

// RecordQuoteSent moves the order to QuoteSent when a carrier sends a quote.
func (o *Order) RecordQuoteSent(carrier kernel.Actor, now time.Time) error {
	if !carrier.IsCarrier() {
		return errs.NewAuthorizationError(carrier.String(), string(ActionSubmitQuote), "only carriers send quotes")
	}
	return o.apply(ActionSubmitQuote, carrier, now)
}

// EnsureAcceptsQuotes fails unless carriers may currently quote on the order.
func (o *Order) EnsureAcceptsQuotes() error {
	if !o.status.AcceptsQuotes() {
		return errs.NewInvalidTransitionError("order", o.status.String(), string(ActionSubmitQuote))
	}
	return nil
}

// AcceptQuote fixes the price, assigns the carrier and confirms the order in one
// step (QuoteSent -> QuoteAccepted -> Confirmed). Only the owning shipper may accept.
func (o *Order) AcceptQuote(
	shipper kernel.Actor,
	quoteID kernel.UUID,
	carrierID kernel.UUID,
	price PriceSnapshot,
	now time.Time,
) error {
	if _, err := o.status.Next(ActionAcceptQuote); err != nil {
		return err
	}
	if !o.IsShipper(shipper) {
		return errs.NewAuthorizationError(shipper.String(), string(ActionAcceptQuote), "only the order's shipper may accept quotes")
	}
	if err := errors.Join(quoteID.Validate(), carrierID.Validate()); err != nil {
		return err
	}

	if err := o.apply(ActionAcceptQuote, shipper, now); err != nil {
		return err
	}
	o.price = &price
	o.acceptedQuoteID = &quoteID
	o.carrierID = &carrierID
	o.assignedAt = &now

	return o.apply(ActionConfirm, shipper, now)
}

// AssignVehicle sets the vehicle the assigned carrier will use. Vehicle
// ownership is checked by the caller, which has access to the vehicle registry.
func (o *Order) AssignVehicle(carrier kernel.Actor, vehicleID kernel.UUID, now time.Time) error {
	if _, err := o.status.Next(ActionAssignVehicle); err != nil {
		return err
	}
	if !o.IsAssignedCarrier(carrier) {
		return errs.NewAuthorizationError(carrier.String(), string(ActionAssignVehicle), "caller is not the assigned carrier")
	}
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	o.vehicleID = &vehicleID
	o.updatedAt = now
	return nil
}

// Start puts the order in transit. The caller must be the assigned carrier and
// a vehicle must be assigned.
func (o *Order) Start(carrier kernel.Actor, now time.Time) error {
	if _, err := o.status.Next(ActionStart); err != nil {
		return err
	}
	if !o.IsAssignedCarrier(carrier) {
		return errs.NewAuthorizationError(carrier.String(), string(ActionStart), "caller is not the assigned carrier")
	}
	if o.vehicleID == nil {
		return errs.NewInvalidTransitionErrorWithReason("order", o.status.String(), string(ActionStart), "no vehicle assigned")
	}

	if err := o.apply(ActionStart, carrier, now); err != nil {
		return err
	}
	o.startedAt = &now
	o.currentPosition = &o.departure
	return nil
}

// UpdatePosition records the carrier's current position while in transit.
func (o *Order) UpdatePosition(carrier kernel.Actor, position kernel.Coordinate, now time.Time) error {
	if _, err := o.status.Next(ActionUpdatePosition); err != nil {
		return err
	}
	if !o.IsAssignedCarrier(carrier) {
		return errs.NewAuthorizationError(carrier.String(), string(ActionUpdatePosition), "caller is not the assigned carrier")
	}
	if err := position.Validate(); err != nil {
		return err
	}

	o.currentPosition = &position
	o.updatedAt = now
	return nil
}

// RemainingDistance is the great-circle distance from the last known position
// (the departure before the order starts) to the destination at speedKmh.
func (o *Order) RemainingDistance(speedKmh float64) (kernel.DistanceResult, error) {
	from := o.departure
	if o.currentPosition != nil {
		from = *o.currentPosition
	}
	return kernel.DistanceAtSpeed(from, o.destination, speedKmh)
}

// Deliver marks the goods as handed over. proof references a signature or photo
// id; Finalize refuses orders delivered without one.
func (o *Order) Deliver(carrier kernel.Actor, proof string, now time.Time) error {
	if _, err := o.status.Next(ActionDeliver); err != nil {
		return err
	}
	if !o.IsAssignedCarrier(carrier) {
		return errs.NewAuthorizationError(carrier.String(), string(ActionDeliver), "caller is not the assigned carrier")
	}

	if err := o.apply(ActionDeliver, carrier, now); err != nil {
		return err
	}
	o.deliveryProof = strings.TrimSpace(proof)
	o.deliveredAt = &now
	o.currentPosition = &o.destination
	return nil
}

// Finalize completes a delivered order. Only administrators and the system
// finalize, and a delivery proof must be on file.
func (o *Order) Finalize(admin kernel.Actor, now time.Time) error {
	if _, err := o.status.Next(ActionFinalize); err != nil {
		return err
	}
	if !admin.IsAdmin() {
		return errs.NewAuthorizationError(admin.String(), string(ActionFinalize), "only administrators finalize orders")
	}
	if o.deliveryProof == "" {
		return errs.NewInvalidTransitionErrorWithReason("order", o.status.String(), string(ActionFinalize), "delivery proof missing")
	}

	if err := o.apply(ActionFinalize, admin, now); err != nil {
		return err
	}
	o.completedAt = &now
	return nil
}

// Cancel terminates a non-terminal order. The reason must hold at least
// MinCancellationReasonLength characters once trimmed.
func (o *Order) Cancel(participant kernel.Actor, reason string, now time.Time) error {
	if _, err := o.status.Next(ActionCancel); err != nil {
		return err
	}
	if !o.IsParticipant(participant) {
		return errs.NewAuthorizationError(participant.String(), string(ActionCancel), "caller is not an order participant")
	}
	reason = strings.TrimSpace(reason)
	if n := utf8.RuneCountInString(reason); n < MinCancellationReasonLength || n > MaxCancellationReasonLength {
		return errs.NewValueIsOutOfRangeError("cancellation reason length", n, MinCancellationReasonLength, MaxCancellationReasonLength)
	}

	if err := o.apply(ActionCancel, participant, now); err != nil {
		return err
	}
	o.cancellationReason = reason
	o.cancelledAt = &now
	return nil
}

func (o *Order) apply(action Action, actor kernel.Actor, now time.Time) error {
	next, err := o.status.Next(action)
	if err != nil {
		return err
	}
	from := o.status
	o.status = next
	o.updatedAt = now
	if from != next {
		o.Record(newStatusChanged(o, from, action, actor, now))
	}
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setShipper(shipperID kernel.UUID) error {
	if err := shipperID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("shipperID", err)
	}
	o.shipperID = shipperID
	return nil
}

func (o *Order) setRoute(departure kernel.Coordinate, destination kernel.Coordinate) error {
	route, err := kernel.Distance(departure, destination)
	if err != nil {
		return err
	}
	o.departure = departure
	o.destination = destination
	if o.route == (kernel.DistanceResult{}) {
		o.route = route
	}
	return nil
}

func (o *Order) setGoods(goods Goods) error {
	if err := goods.Validate(); err != nil {
		return err
	}
	o.goods = goods
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}
