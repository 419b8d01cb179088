package commands_test

import (
	"sync"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type LifecycleSuite struct {
	suite.Suite
	db        *memoryDB
	clock     *fixedClock
	estimator *services.PricingEstimator
	shipper   kernel.Actor
	carrier   kernel.Actor
	admin     kernel.Actor
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.db = newMemoryDB()
	s.clock = newFixedClock(start)
	s.shipper = newActor(s.T(), kernel.RoleShipper)
	s.carrier = newActor(s.T(), kernel.RoleCarrier)
	s.admin = newActor(s.T(), kernel.RoleAdmin)

	var err error
	s.estimator, err = services.NewPricingEstimator(services.DefaultPricingParams())
	s.Require().NoError(err)
}

func (s *LifecycleSuite) createOrder(weightKg float64) *order.Order {
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), s.shipper,
		ports.Place{Coordinate: &dakar}, ports.Place{Coordinate: &thies}, newGoods(s.T(), weightKg, kernel.GoodsGeneral), nil)
	s.Require().NoError(err)

	h := commands.NewCreateOrderCommandHandler(memoryOrderUoWFactory{s.db}, addressBook{}, s.clock)
	o, err := h.Handle(s.T().Context(), cmd)
	s.Require().NoError(err)
	return o
}

func (s *LifecycleSuite) submit(carrier kernel.Actor, orderID kernel.UUID, validFor time.Duration, send bool) (commands.QuoteResult, error) {
	cmd, err := commands.NewSubmitQuoteCommand(kernel.NewUUID(), orderID, carrier, nil,
		breakdown306800(s.T()), s.clock.Now().Add(validFor), "", send)
	s.Require().NoError(err)

	h := commands.NewSubmitQuoteCommandHandler(s.db.factory(), s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) mustSubmit(carrier kernel.Actor, orderID kernel.UUID) *quote.Quote {
	res, err := s.submit(carrier, orderID, 7*24*time.Hour, true)
	s.Require().NoError(err)
	return res.Quote
}

func (s *LifecycleSuite) accept(shipper kernel.Actor, quoteID kernel.UUID) (commands.AcceptQuoteResult, error) {
	cmd, err := commands.NewAcceptQuoteCommand(quoteID, shipper)
	s.Require().NoError(err)

	h := commands.NewAcceptQuoteCommandHandler(s.db.factory(), services.NewQuoteAcceptor(), s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) addVehicle(carrier kernel.Actor, class vehicle.Class, capacityKg float64) *vehicle.Vehicle {
	v, err := vehicle.NewVehicle(kernel.NewUUID(), carrier.ProfileID(), "DK-"+kernel.NewUUID().ShortCode(),
		class, capacityKg, 40, nil, true)
	s.Require().NoError(err)
	s.Require().NoError(newMemoryUoW(s.db).VehicleRepository().Add(s.T().Context(), v))
	return v
}

func (s *LifecycleSuite) assignVehicle(orderID kernel.UUID, v *vehicle.Vehicle, carrier kernel.Actor) (*order.Order, error) {
	cmd, err := commands.NewAssignVehicleCommand(orderID, v.ID(), carrier)
	s.Require().NoError(err)
	h := commands.NewAssignVehicleCommandHandler(s.db.factory(), s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) start(orderID kernel.UUID, carrier kernel.Actor) (*order.Order, error) {
	cmd, err := commands.NewStartTransportCommand(orderID, carrier)
	s.Require().NoError(err)
	h := commands.NewStartTransportCommandHandler(memoryOrderUoWFactory{s.db}, s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) deliver(orderID kernel.UUID, carrier kernel.Actor, proof string) (*order.Order, error) {
	cmd, err := commands.NewMarkDeliveredCommand(orderID, carrier, proof)
	s.Require().NoError(err)
	h := commands.NewMarkDeliveredCommandHandler(memoryOrderUoWFactory{s.db}, s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) finalize(orderID kernel.UUID, actor kernel.Actor) (*order.Order, error) {
	cmd, err := commands.NewFinalizeOrderCommand(orderID, actor)
	s.Require().NoError(err)
	h := commands.NewFinalizeOrderCommandHandler(memoryOrderUoWFactory{s.db}, s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) cancel(orderID kernel.UUID, actor kernel.Actor, reason string) (*order.Order, error) {
	cmd, err := commands.NewCancelOrderCommand(orderID, actor, reason)
	s.Require().NoError(err)
	h := commands.NewCancelOrderCommandHandler(s.db.factory(), s.clock)
	return h.Handle(s.T().Context(), cmd)
}

func (s *LifecycleSuite) confirmedOrder() (*order.Order, *vehicle.Vehicle) {
	o := s.createOrder(2000)
	q := s.mustSubmit(s.carrier, o.ID())
	_, err := s.accept(s.shipper, q.ID())
	s.Require().NoError(err)
	return o, s.addVehicle(s.carrier, vehicle.ClassMediumTruck, 10_000)
}

func (s *LifecycleSuite) TestDakarToThiesReferenceScenario() {
	o := s.createOrder(2000)
	s.Equal(order.Requested, o.Status())

	submitted, err := s.submit(s.carrier, o.ID(), 7*24*time.Hour, true)
	s.Require().NoError(err)
	s.Equal(quote.Sent, submitted.Quote.Status())
	s.Equal(order.QuoteSent, submitted.Order.Status())

	s.clock.Advance(time.Hour)
	accepted, err := s.accept(s.shipper, submitted.Quote.ID())
	s.Require().NoError(err)
	s.Equal(order.Confirmed, accepted.Order.Status())
	s.Require().NotNil(accepted.Order.TotalPrice())
	s.Equal(int64(306_800), *accepted.Order.TotalPrice())
	s.Empty(accepted.Superseded)
	s.Equal(quote.Accepted, s.db.storedQuote(submitted.Quote.ID()).Status)

	truck := s.addVehicle(s.carrier, vehicle.ClassMediumTruck, 10_000)
	_, err = s.assignVehicle(o.ID(), truck, s.carrier)
	s.Require().NoError(err)

	started, err := s.start(o.ID(), s.carrier)
	s.Require().NoError(err)
	s.Equal(order.InTransit, started.Status())
	s.NotNil(started.StartedAt())

	posCmd, err := commands.NewUpdatePositionCommand(o.ID(), s.carrier, kernel.MustCoordinate(14.74, -17.19))
	s.Require().NoError(err)
	posHandler := commands.NewUpdatePositionCommandHandler(s.db.factory(), s.estimator, s.clock)
	tracked, err := posHandler.Handle(s.T().Context(), posCmd)
	s.Require().NoError(err)
	s.Less(tracked.Remaining.DistanceKm(), o.Route().DistanceKm())
	s.Positive(tracked.Remaining.DurationMinutes())

	delivered, err := s.deliver(o.ID(), s.carrier, "signature-7781")
	s.Require().NoError(err)
	s.Equal(order.Delivered, delivered.Status())

	completed, err := s.finalize(o.ID(), s.admin)
	s.Require().NoError(err)
	s.Equal(order.Completed, completed.Status())
	s.NotNil(completed.CompletedAt())
	s.Equal(order.Completed, s.db.storedOrder(o.ID()).Status)

	events := s.db.eventNames()
	s.Contains(events, order.EventCreated)
	s.Contains(events, order.EventStatusChanged)
	s.Contains(events, quote.EventCreated)
	s.Contains(events, quote.EventStatusChanged)
}

func (s *LifecycleSuite) TestAcceptSupersedesEverySibling() {
	o := s.createOrder(2000)
	var quotes []*quote.Quote
	for range 3 {
		quotes = append(quotes, s.mustSubmit(newActor(s.T(), kernel.RoleCarrier), o.ID()))
	}

	res, err := s.accept(s.shipper, quotes[1].ID())

	s.Require().NoError(err)
	s.Len(res.Superseded, 2)
	counts := map[quote.Status]int{}
	for _, q := range quotes {
		counts[s.db.storedQuote(q.ID()).Status]++
	}
	s.Equal(map[quote.Status]int{quote.Accepted: 1, quote.Rejected: 2}, counts)
}

func (s *LifecycleSuite) TestConcurrentAcceptanceHasExactlyOneWinner() {
	o := s.createOrder(2000)
	first := s.mustSubmit(newActor(s.T(), kernel.RoleCarrier), o.ID())
	second := s.mustSubmit(newActor(s.T(), kernel.RoleCarrier), o.ID())

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, q := range []*quote.Quote{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = s.accept(s.shipper, q.ID())
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
			continue
		}
		s.True(errs.Kind(err) == errs.KindConflict || errs.Kind(err) == errs.KindInvalidTransition, err.Error())
	}
	s.Equal(1, winners)

	accepted := 0
	for _, q := range []*quote.Quote{first, second} {
		if s.db.storedQuote(q.ID()).Status == quote.Accepted {
			accepted++
		}
	}
	s.Equal(1, accepted)
	s.Equal(order.Confirmed, s.db.storedOrder(o.ID()).Status)
}

func (s *LifecycleSuite) TestAcceptAfterValidUntilFailsWithExpired() {
	o := s.createOrder(2000)
	res, err := s.submit(s.carrier, o.ID(), time.Hour, true)
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)
	_, err = s.accept(s.shipper, res.Quote.ID())

	s.Require().ErrorIs(err, errs.ErrExpired)
	s.Equal(quote.Sent, s.db.storedQuote(res.Quote.ID()).Status)
	s.Equal(order.QuoteSent, s.db.storedOrder(o.ID()).Status)
}

func (s *LifecycleSuite) TestOneActiveQuotePerCarrier() {
	o := s.createOrder(2000)
	first, err := s.submit(s.carrier, o.ID(), time.Hour, true)
	s.Require().NoError(err)

	_, err = s.submit(s.carrier, o.ID(), time.Hour, true)
	s.Require().ErrorIs(err, errs.ErrConflict)

	s.clock.Advance(90 * time.Minute)
	second, err := s.submit(s.carrier, o.ID(), time.Hour, true)
	s.Require().NoError(err)
	s.Equal(quote.Expired, s.db.storedQuote(first.Quote.ID()).Status)
	s.Equal(quote.Sent, s.db.storedQuote(second.Quote.ID()).Status)
}

func (s *LifecycleSuite) TestDraftIsSentSeparately() {
	o := s.createOrder(2000)
	draft, err := s.submit(s.carrier, o.ID(), 24*time.Hour, false)
	s.Require().NoError(err)
	s.Equal(quote.Draft, draft.Quote.Status())
	s.Equal(order.Requested, s.db.storedOrder(o.ID()).Status)

	cmd, err := commands.NewSendQuoteCommand(draft.Quote.ID(), s.carrier)
	s.Require().NoError(err)
	h := commands.NewSendQuoteCommandHandler(s.db.factory(), s.clock)
	sent, err := h.Handle(s.T().Context(), cmd)

	s.Require().NoError(err)
	s.Equal(quote.Sent, sent.Quote.Status())
	s.Equal(order.QuoteSent, s.db.storedOrder(o.ID()).Status)

	other, err := commands.NewSendQuoteCommand(draft.Quote.ID(), newActor(s.T(), kernel.RoleCarrier))
	s.Require().NoError(err)
	_, err = h.Handle(s.T().Context(), other)
	s.Require().Error(err)
}

func (s *LifecycleSuite) TestDraftAdvancesOrderVersion() {
	o := s.createOrder(2000)
	before := s.db.storedOrder(o.ID()).Version

	_, err := s.submit(s.carrier, o.ID(), 24*time.Hour, false)

	s.Require().NoError(err)
	s.Greater(s.db.storedOrder(o.ID()).Version, before)
	s.Equal(order.Requested, s.db.storedOrder(o.ID()).Status)
}

func (s *LifecycleSuite) TestDraftRacingAcceptanceNeverOutlivesConfirmation() {
	o := s.createOrder(2000)
	sent := s.mustSubmit(newActor(s.T(), kernel.RoleCarrier), o.ID())

	var (
		wg        sync.WaitGroup
		acceptErr error
		draft     commands.QuoteResult
		draftErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = s.accept(s.shipper, sent.ID())
	}()
	go func() {
		defer wg.Done()
		draft, draftErr = s.submit(s.carrier, o.ID(), 24*time.Hour, false)
	}()
	wg.Wait()

	if acceptErr != nil {
		s.Equal(errs.KindConflict, errs.Kind(acceptErr), acceptErr.Error())
		s.Require().NoError(draftErr)
		return
	}
	s.Equal(order.Confirmed, s.db.storedOrder(o.ID()).Status)
	if draftErr == nil {
		s.Equal(quote.Rejected, s.db.storedQuote(draft.Quote.ID()).Status)
	}
}

func (s *LifecycleSuite) TestRejectLeavesOrderAwaitingQuotes() {
	o := s.createOrder(2000)
	q := s.mustSubmit(s.carrier, o.ID())
	h := commands.NewRejectQuoteCommandHandler(s.db.factory(), s.clock)

	byCarrier, err := commands.NewRejectQuoteCommand(q.ID(), s.carrier)
	s.Require().NoError(err)
	_, err = h.Handle(s.T().Context(), byCarrier)
	s.Require().ErrorIs(err, errs.ErrUnauthorized)

	byShipper, err := commands.NewRejectQuoteCommand(q.ID(), s.shipper)
	s.Require().NoError(err)
	res, err := h.Handle(s.T().Context(), byShipper)
	s.Require().NoError(err)
	s.Equal(quote.Rejected, res.Quote.Status())
	s.Equal(order.QuoteSent, s.db.storedOrder(o.ID()).Status)

	_, err = s.accept(s.shipper, q.ID())
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *LifecycleSuite) TestReviseReplacesSentQuote() {
	o := s.createOrder(2000)
	q := s.mustSubmit(s.carrier, o.ID())
	cheaper, err := quote.NewBreakdown(50_000, 180_000, 30_000, 0, 0, 0, 26_800)
	s.Require().NoError(err)

	cmd, err := commands.NewReviseQuoteCommand(q.ID(), kernel.NewUUID(), s.carrier, cheaper, s.clock.Now().Add(48*time.Hour), "fuel price dropped")
	s.Require().NoError(err)
	h := commands.NewReviseQuoteCommandHandler(s.db.factory(), s.clock)
	res, err := h.Handle(s.T().Context(), cmd)

	s.Require().NoError(err)
	s.Equal(quote.Revised, s.db.storedQuote(q.ID()).Status)
	s.Equal(quote.Draft, res.Revision.Status())
	s.Require().NotNil(res.Revision.RevisionOf())
	s.True(res.Revision.RevisionOf().IsEqual(q.ID()))
	s.Equal(int64(286_800), res.Revision.Breakdown().Total())

	_, err = s.accept(s.shipper, q.ID())
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *LifecycleSuite) TestAutoQuotePicksSmallestSuitableVehicle() {
	o := s.createOrder(2000)
	s.addVehicle(s.carrier, vehicle.ClassVan, 800)
	medium := s.addVehicle(s.carrier, vehicle.ClassMediumTruck, 10_000)
	s.addVehicle(s.carrier, vehicle.ClassHeavyTruck, 25_000)

	cmd, err := commands.NewAutoQuoteCommand(kernel.NewUUID(), o.ID(), s.carrier, true)
	s.Require().NoError(err)
	h := commands.NewAutoQuoteCommandHandler(s.db.factory(), services.NewVehicleMatcher(), s.estimator, s.clock)
	res, err := h.Handle(s.T().Context(), cmd)

	s.Require().NoError(err)
	s.True(res.Vehicle.ID().IsEqual(medium.ID()))
	s.Require().NotNil(res.Quote.VehicleID())
	s.True(res.Quote.VehicleID().IsEqual(medium.ID()))
	s.Equal(quote.Sent, res.Quote.Status())
	s.Equal(s.clock.Now().Add(s.estimator.QuoteValidity()), res.Quote.ValidUntil())

	expected, err := s.estimator.QuoteBreakdown(o.Goods(), s.estimator.Estimate(o.Route().DistanceKm(), vehicle.ClassMediumTruck))
	s.Require().NoError(err)
	s.Equal(expected.Total(), res.Quote.Breakdown().Total())
}

func (s *LifecycleSuite) TestAutoQuoteWithoutSuitableVehicle() {
	o := s.createOrder(30_000)
	s.addVehicle(s.carrier, vehicle.ClassMediumTruck, 10_000)

	cmd, err := commands.NewAutoQuoteCommand(kernel.NewUUID(), o.ID(), s.carrier, false)
	s.Require().NoError(err)
	h := commands.NewAutoQuoteCommandHandler(s.db.factory(), services.NewVehicleMatcher(), s.estimator, s.clock)
	_, err = h.Handle(s.T().Context(), cmd)

	s.Require().ErrorIs(err, errs.ErrNoSuitableVehicle)
}

func (s *LifecycleSuite) TestCancelClosesOpenQuotes() {
	o := s.createOrder(2000)
	first := s.mustSubmit(newActor(s.T(), kernel.RoleCarrier), o.ID())
	second := s.mustSubmit(newActor(s.T(), kernel.RoleCarrier), o.ID())

	_, err := s.cancel(o.ID(), s.shipper, "too short")
	s.Require().ErrorIs(err, errs.ErrValueIsOutOfRange)

	_, err = s.cancel(o.ID(), s.carrier, "not my order at all")
	s.Require().ErrorIs(err, errs.ErrUnauthorized)

	cancelled, err := s.cancel(o.ID(), s.shipper, "goods are no longer available")
	s.Require().NoError(err)
	s.Equal(order.Cancelled, cancelled.Status())
	s.Equal(quote.Rejected, s.db.storedQuote(first.ID()).Status)
	s.Equal(quote.Rejected, s.db.storedQuote(second.ID()).Status)

	_, err = s.cancel(o.ID(), s.shipper, "goods are no longer available")
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
}

func (s *LifecycleSuite) TestStartRequiresAssignedVehicle() {
	o, truck := s.confirmedOrder()

	_, err := s.start(o.ID(), s.carrier)
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)

	_, err = s.assignVehicle(o.ID(), truck, s.carrier)
	s.Require().NoError(err)
	_, err = s.start(o.ID(), newActor(s.T(), kernel.RoleCarrier))
	s.Require().ErrorIs(err, errs.ErrUnauthorized)
}

func (s *LifecycleSuite) TestVehicleMustBelongToCarrierAndFitGoods() {
	o, _ := s.confirmedOrder()

	foreign := s.addVehicle(newActor(s.T(), kernel.RoleCarrier), vehicle.ClassMediumTruck, 10_000)
	_, err := s.assignVehicle(o.ID(), foreign, s.carrier)
	s.Require().ErrorIs(err, errs.ErrUnauthorized)

	tooSmall := s.addVehicle(s.carrier, vehicle.ClassVan, 800)
	_, err = s.assignVehicle(o.ID(), tooSmall, s.carrier)
	s.Require().ErrorIs(err, errs.ErrValueIsInvalid)
}

func (s *LifecycleSuite) TestFinalizeNeedsAdminAndProof() {
	o, truck := s.confirmedOrder()
	_, err := s.assignVehicle(o.ID(), truck, s.carrier)
	s.Require().NoError(err)
	_, err = s.start(o.ID(), s.carrier)
	s.Require().NoError(err)
	_, err = s.deliver(o.ID(), s.carrier, "")
	s.Require().NoError(err)

	_, err = s.finalize(o.ID(), s.shipper)
	s.Require().ErrorIs(err, errs.ErrUnauthorized)

	_, err = s.finalize(o.ID(), s.admin)
	s.Require().ErrorIs(err, errs.ErrInvalidTransition)
	s.Equal(order.Delivered, s.db.storedOrder(o.ID()).Status)
}

func (s *LifecycleSuite) TestExpirySweepConvergesStoredStatus() {
	o := s.createOrder(2000)
	short, err := s.submit(newActor(s.T(), kernel.RoleCarrier), o.ID(), time.Hour, true)
	s.Require().NoError(err)
	long, err := s.submit(newActor(s.T(), kernel.RoleCarrier), o.ID(), 48*time.Hour, true)
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Hour)
	cmd, err := commands.NewExpireQuotesCommand(100)
	s.Require().NoError(err)
	h := commands.NewExpireQuotesCommandHandler(memoryQuoteUoWFactory{s.db}, s.clock)

	n, err := h.Handle(s.T().Context(), cmd)
	s.Require().NoError(err)
	s.Equal(1, n)
	s.Equal(quote.Expired, s.db.storedQuote(short.Quote.ID()).Status)
	s.Equal(quote.Sent, s.db.storedQuote(long.Quote.ID()).Status)

	n, err = h.Handle(s.T().Context(), cmd)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *LifecycleSuite) TestStaleWriteIsRejected() {
	o := s.createOrder(2000)
	stale, err := newMemoryUoW(s.db).OrderRepository().Get(s.T().Context(), o.ID())
	s.Require().NoError(err)

	s.mustSubmit(s.carrier, o.ID())

	uow := newMemoryUoW(s.db)
	s.Require().NoError(uow.Begin(s.T().Context()))
	s.Require().NoError(stale.Cancel(s.shipper, "changed my mind entirely", s.clock.Now()))
	err = uow.OrderRepository().Update(s.T().Context(), stale)

	s.Require().ErrorIs(err, errs.ErrConcurrentModification)
	s.True(errs.IsRetryable(err))
}

func (s *LifecycleSuite) TestCommandConstructorsRejectBadInput() {
	_, err := commands.NewExpireQuotesCommand(0)
	s.ErrorIs(err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewSubmitQuoteCommand(kernel.NewUUID(), kernel.NewUUID(), s.carrier, nil, quote.Breakdown{}, time.Time{}, "", false)
	s.ErrorIs(err, errs.ErrValueIsOutOfRange)
	s.ErrorIs(err, errs.ErrValueIsRequired)

	_, err = commands.NewCancelOrderCommand(kernel.NewUUID(), s.shipper, "   ")
	s.ErrorIs(err, errs.ErrValueIsRequired)

	_, err = commands.NewUpdatePositionCommand(kernel.NewUUID(), s.carrier, kernel.Coordinate{})
	s.ErrorIs(err, errs.ErrValueIsRequired)

	_, err = commands.NewAcceptQuoteCommand(kernel.UUID{}, s.shipper)
	s.ErrorIs(err, errs.ErrValueIsRequired)

	s.ErrorIs(commands.AcceptQuoteCommand{}.Validate(), commands.ErrAcceptQuoteCommandIsNotConstructed)
}
