package http

import (
	"log/slog"
	"net/http"
	"time"

	"freight/internal/core/application/ratelimit"
	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers are the use cases the server exposes.
type Handlers struct {
	CreateOrder    commands.CreateOrderCommandHandler
	SubmitQuote    commands.SubmitQuoteCommandHandler
	AutoQuote      commands.AutoQuoteCommandHandler
	SendQuote      commands.SendQuoteCommandHandler
	AcceptQuote    commands.AcceptQuoteCommandHandler
	RejectQuote    commands.RejectQuoteCommandHandler
	ReviseQuote    commands.ReviseQuoteCommandHandler
	AssignVehicle  commands.AssignVehicleCommandHandler
	StartTransport commands.StartTransportCommandHandler
	UpdatePosition commands.UpdatePositionCommandHandler
	MarkDelivered  commands.MarkDeliveredCommandHandler
	FinalizeOrder  commands.FinalizeOrderCommandHandler
	CancelOrder    commands.CancelOrderCommandHandler

	GetOrder          queries.GetOrderQueryHandler
	ListOrders        queries.ListOrdersQueryHandler
	ListOrderQuotes   queries.ListOrderQuotesQueryHandler
	CalculateDistance queries.CalculateDistanceQueryHandler
	OptimizeRoute     queries.OptimizeRouteQueryHandler
	SearchAddresses   queries.SearchAddressesQueryHandler
}

// Server maps HTTP requests onto application use cases.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h        Handlers
	resolver ports.IdentityResolver
	limiter  *ratelimit.RateLimiter
	clock    ports.Clock
	logger   *slog.Logger
}

func NewServer(
	handlers Handlers,
	resolver ports.IdentityResolver,
	limiter *ratelimit.RateLimiter,
	clock ports.Clock,
	logger *slog.Logger,
) *Server {
	return &Server{
		h:        handlers,
		resolver: resolver,
		limiter:  limiter,
		clock:    clock,
		logger:   logger.With("component", "http"),
	}
}

// NewEcho builds the echo instance with middleware and every route.
// requestTimeout bounds the context of each request; zero disables it.
func NewEcho(s *Server, requestTimeout time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewErrorHandler(s.logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(s.logger))
	if requestTimeout > 0 {
		e.Use(middleware.ContextTimeout(requestTimeout))
	}

	s.Register(e)
	return e
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	limit := func(a ratelimit.Action) echo.MiddlewareFunc { return rateLimit(s.limiter, a) }

	api := e.Group("/api/v1", resolveActor(s.resolver))

	api.POST("/orders", s.CreateOrder, limit(ratelimit.ActionOrderCreate))
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/quotes", s.SubmitQuote, limit(ratelimit.ActionQuoteSubmit))
	api.POST("/orders/:id/quotes/auto", s.AutoQuote, limit(ratelimit.ActionQuoteSubmit))
	api.GET("/orders/:id/quotes", s.ListOrderQuotes)
	api.POST("/orders/:id/vehicle", s.AssignVehicle, limit(ratelimit.ActionOrderTransition))
	api.POST("/orders/:id/start", s.StartTransport, limit(ratelimit.ActionOrderTransition))
	api.POST("/orders/:id/position", s.UpdatePosition, limit(ratelimit.ActionPosition))
	api.POST("/orders/:id/deliver", s.MarkDelivered, limit(ratelimit.ActionOrderTransition))
	api.POST("/orders/:id/finalize", s.FinalizeOrder, limit(ratelimit.ActionOrderTransition))
	api.POST("/orders/:id/cancel", s.CancelOrder, limit(ratelimit.ActionOrderCancel))

	api.POST("/quotes/:id/send", s.SendQuote, limit(ratelimit.ActionQuoteSubmit))
	api.POST("/quotes/:id/accept", s.AcceptQuote, limit(ratelimit.ActionQuoteAccept))
	api.POST("/quotes/:id/reject", s.RejectQuote, limit(ratelimit.ActionQuoteReject))
	api.POST("/quotes/:id/revise", s.ReviseQuote, limit(ratelimit.ActionQuoteSubmit))

	api.POST("/geo/distance", s.CalculateDistance)
	api.POST("/geo/route/optimize", s.OptimizeRoute)
	api.GET("/geo/addresses/nearby", s.SearchAddresses)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return id, nil
}

// target returns the actor and the id in the path.
func target(c echo.Context) (kernel.Actor, kernel.UUID, error) {
	actor, err := actorOf(c)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	id, err := pathID(c)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	return actor, id, nil
}
