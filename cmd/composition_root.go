package cmd

import (
	"log/slog"

	httpin "freight/internal/adapters/in/http"
	"freight/internal/adapters/out/postgres"
	"freight/internal/adapters/out/postgres/addressrepo"
	"freight/internal/adapters/out/postgres/profilerepo"
	"freight/internal/core/application/identity"
	"freight/internal/core/application/ratelimit"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/jobs"

	"gorm.io/gorm"
)

// Infrastructure is what main opens before the application is wired.
type Infrastructure struct {
	DB *gorm.DB
	// Store backs rate limit windows and the profile cache.
	Store ports.EphemeralStore
	// Publisher may be nil; events are then dropped after commit.
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Logger    *slog.Logger
}

type CompositionRoot struct {
	cfg        Config
	infra      Infrastructure
	uowFactory *postgres.GormUnitOfWorkFactory
	addresses  *addressrepo.GormAddressRepository
	estimator  *services.PricingEstimator
}

func NewCompositionRoot(cfg Config, infra Infrastructure, pricing services.PricingParams) (*CompositionRoot, error) {
	estimator, err := services.NewPricingEstimator(pricing)
	if err != nil {
		return nil, err
	}
	return &CompositionRoot{
		cfg:        cfg,
		infra:      infra,
		uowFactory: postgres.NewGormUnitOfWorkFactory(infra.DB, infra.Publisher, infra.Logger),
		addresses:  addressrepo.NewGormAddressRepository(infra.DB),
		estimator:  estimator,
	}, nil
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderUoW() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) quoteUoW() commands.QuoteUoWFactory {
	return FuncQuoteUoWFactory(func() commands.QuoteUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoW(), c.addresses, c.infra.Clock)
}

func (c *CompositionRoot) CreateSubmitQuoteCommandHandler() commands.SubmitQuoteCommandHandler {
	return commands.NewSubmitQuoteCommandHandler(c.uow(), c.infra.Clock)
}

func (c *CompositionRoot) CreateAutoQuoteCommandHandler() commands.AutoQuoteCommandHandler {
	return commands.NewAutoQuoteCommandHandler(c.uow(), services.NewVehicleMatcher(), c.estimator, c.infra.Clock)
}

func (c *CompositionRoot) CreateSendQuoteCommandHandler() commands.SendQuoteCommandHandler {
	return commands.NewSendQuoteCommandHandler(c.uow(), c.infra.Clock)
}

func (c *CompositionRoot) CreateAcceptQuoteCommandHandler() commands.AcceptQuoteCommandHandler {
	return commands.NewAcceptQuoteCommandHandler(c.uow(), services.NewQuoteAcceptor(), c.infra.Clock)
}

func (c *CompositionRoot) CreateRejectQuoteCommandHandler() commands.RejectQuoteCommandHandler {
	return commands.NewRejectQuoteCommandHandler(c.uow(), c.infra.Clock)
}

func (c *CompositionRoot) CreateReviseQuoteCommandHandler() commands.ReviseQuoteCommandHandler {
	return commands.NewReviseQuoteCommandHandler(c.uow(), c.infra.Clock)
}

func (c *CompositionRoot) CreateAssignVehicleCommandHandler() commands.AssignVehicleCommandHandler {
	return commands.NewAssignVehicleCommandHandler(c.uow(), c.infra.Clock)
}

func (c *CompositionRoot) CreateStartTransportCommandHandler() commands.StartTransportCommandHandler {
	return commands.NewStartTransportCommandHandler(c.orderUoW(), c.infra.Clock)
}

func (c *CompositionRoot) CreateUpdatePositionCommandHandler() commands.UpdatePositionCommandHandler {
	return commands.NewUpdatePositionCommandHandler(c.uow(), c.estimator, c.infra.Clock)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(c.orderUoW(), c.infra.Clock)
}

func (c *CompositionRoot) CreateFinalizeOrderCommandHandler() commands.FinalizeOrderCommandHandler {
	return commands.NewFinalizeOrderCommandHandler(c.orderUoW(), c.infra.Clock)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.uow(), c.infra.Clock)
}

func (c *CompositionRoot) CreateExpireQuotesCommandHandler() commands.ExpireQuotesCommandHandler {
	return commands.NewExpireQuotesCommandHandler(c.quoteUoW(), c.infra.Clock)
}

// CreateGetOrderQueryHandler reads through repositories of a unit of work that
// is never begun, so they run on the pool.
func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewGetOrderQueryHandler(uow.OrderRepository(), uow.QuoteRepository(), c.infra.Clock)
}

func (c *CompositionRoot) CreateListOrderQuotesQueryHandler() queries.ListOrderQuotesQueryHandler {
	return queries.NewListOrderQuotesQueryHandler(c.CreateGetOrderQueryHandler())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.infra.DB)
}

func (c *CompositionRoot) CreateCalculateDistanceQueryHandler() queries.CalculateDistanceQueryHandler {
	return queries.NewCalculateDistanceQueryHandler(c.addresses, c.estimator)
}

func (c *CompositionRoot) CreateOptimizeRouteQueryHandler() queries.OptimizeRouteQueryHandler {
	return queries.NewOptimizeRouteQueryHandler(c.addresses, services.NewRouteOptimizer(), c.estimator)
}

func (c *CompositionRoot) CreateSearchAddressesQueryHandler() queries.SearchAddressesQueryHandler {
	return queries.NewSearchAddressesQueryHandler(c.infra.DB)
}

func (c *CompositionRoot) CreateIdentityResolver() *identity.Resolver {
	return identity.NewResolver(profilerepo.NewGormProfileRepository(c.infra.DB), c.infra.Store,
		c.cfg.AdminUserIDs, c.cfg.ProfileCacheTTL, c.infra.Logger)
}

func (c *CompositionRoot) CreateRateLimiter() (*ratelimit.RateLimiter, error) {
	return ratelimit.NewRateLimiter(c.infra.Store, c.infra.Clock, c.infra.Logger, c.cfg.RateLimits)
}

func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	limiter, err := c.CreateRateLimiter()
	if err != nil {
		return nil, err
	}
	handlers := httpin.Handlers{
		CreateOrder:    c.CreateCreateOrderCommandHandler(),
		SubmitQuote:    c.CreateSubmitQuoteCommandHandler(),
		AutoQuote:      c.CreateAutoQuoteCommandHandler(),
		SendQuote:      c.CreateSendQuoteCommandHandler(),
		AcceptQuote:    c.CreateAcceptQuoteCommandHandler(),
		RejectQuote:    c.CreateRejectQuoteCommandHandler(),
		ReviseQuote:    c.CreateReviseQuoteCommandHandler(),
		AssignVehicle:  c.CreateAssignVehicleCommandHandler(),
		StartTransport: c.CreateStartTransportCommandHandler(),
		UpdatePosition: c.CreateUpdatePositionCommandHandler(),
		MarkDelivered:  c.CreateMarkDeliveredCommandHandler(),
		FinalizeOrder:  c.CreateFinalizeOrderCommandHandler(),
		CancelOrder:    c.CreateCancelOrderCommandHandler(),

		GetOrder:          c.CreateGetOrderQueryHandler(),
		ListOrders:        c.CreateListOrdersQueryHandler(),
		ListOrderQuotes:   c.CreateListOrderQuotesQueryHandler(),
		CalculateDistance: c.CreateCalculateDistanceQueryHandler(),
		OptimizeRoute:     c.CreateOptimizeRouteQueryHandler(),
		SearchAddresses:   c.CreateSearchAddressesQueryHandler(),
	}
	return httpin.NewServer(handlers, c.CreateIdentityResolver(), limiter, c.infra.Clock, c.infra.Logger), nil
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	handler := c.CreateExpireQuotesCommandHandler()
	return jobs.NewJobManager(&handler, c.cfg.QuoteExpirySchedule, c.infra.Logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncQuoteUoWFactory func() commands.QuoteUoW

func (f FuncQuoteUoWFactory) Create() commands.QuoteUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
