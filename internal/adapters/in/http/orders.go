package http

import (
	"net/http"
	"strings"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	departure, err := req.Departure.toDomain("departure")
	if err != nil {
		return err
	}
	destination, err := req.Destination.toDomain("destination")
	if err != nil {
		return err
	}
	goods, err := order.NewGoods(req.Goods.WeightKg, req.Goods.VolumeM3, req.Goods.DeclaredValue,
		kernel.GoodsType(req.Goods.GoodsType), req.Goods.SpecialRequirements)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), actor, departure, destination, goods, req.PickupDate)
	if err != nil {
		return err
	}
	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, orderResponse(o))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(id, actor)
	if err != nil {
		return err
	}
	res, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, OrderWithQuotesResponse{Order: orderResponse(res.Order), Quotes: quoteViews(res.Quotes)})
}

// ListOrderQuotes handles GET /api/v1/orders/:id/quotes.
func (s *Server) ListOrderQuotes(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	query, err := queries.NewListOrderQuotesQuery(id, actor)
	if err != nil {
		return err
	}
	views, err := s.h.ListOrderQuotes.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, quoteViews(views))
}

// ListOrders handles GET /api/v1/orders.
//
// Query parameters: status (repeatable or comma separated), from and to
// (RFC 3339), minPrice, maxPrice, marketplace, sort (date|price|status),
// order (asc|desc), page, limit.
func (s *Server) ListOrders(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var (
		statuses  []string
		from, to  time.Time
		minPrice  int64
		maxPrice  int64
		direction string
		sort      string
		filter    queries.OrderFilter
	)
	if err := echo.QueryParamsBinder(c).
		Strings("status", &statuses).
		Time("from", &from, time.RFC3339).
		Time("to", &to, time.RFC3339).
		Int64("minPrice", &minPrice).
		Int64("maxPrice", &maxPrice).
		Bool("marketplace", &filter.Marketplace).
		String("sort", &sort).
		String("order", &direction).
		Int("page", &filter.Page).
		Int("limit", &filter.Limit).
		BindError(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("query", err)
	}

	for _, raw := range statuses {
		for _, name := range strings.Split(raw, ",") {
			status, err := order.ParseStatus(strings.TrimSpace(name))
			if err != nil {
				return err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if c.QueryParam("from") != "" {
		filter.CreatedFrom = &from
	}
	if c.QueryParam("to") != "" {
		filter.CreatedTo = &to
	}
	if c.QueryParam("minPrice") != "" {
		filter.MinPrice = &minPrice
	}
	if c.QueryParam("maxPrice") != "" {
		filter.MaxPrice = &maxPrice
	}
	if sort != "" {
		filter.Sort = queries.OrderSort(sort)
		filter.Descending = direction == "desc"
	} else if direction == "asc" {
		filter.Sort = queries.SortByDate
	}
	if direction != "" && direction != "asc" && direction != "desc" {
		return errs.NewValueIsInvalidError("order")
	}

	query, err := queries.NewListOrdersQuery(actor, filter)
	if err != nil {
		return err
	}
	res, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderPageResponse(res))
}

// AssignVehicle handles POST /api/v1/orders/:id/vehicle.
func (s *Server) AssignVehicle(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	var req AssignVehicleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	vehicleID, err := kernel.UUIDFromString(req.VehicleID)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("vehicleId", err)
	}

	cmd, err := commands.NewAssignVehicleCommand(id, vehicleID, actor)
	if err != nil {
		return err
	}
	o, err := s.h.AssignVehicle.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// StartTransport handles POST /api/v1/orders/:id/start.
func (s *Server) StartTransport(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewStartTransportCommand(id, actor)
	if err != nil {
		return err
	}
	o, err := s.h.StartTransport.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// UpdatePosition handles POST /api/v1/orders/:id/position.
func (s *Server) UpdatePosition(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	var req CoordinateDTO
	if err := c.Bind(&req); err != nil {
		return err
	}
	position, err := req.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdatePositionCommand(id, actor, position)
	if err != nil {
		return err
	}
	res, err := s.h.UpdatePosition.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PositionResponse{
		Order:                    orderResponse(res.Order),
		RemainingDistanceKm:      res.Remaining.DistanceKm(),
		RemainingDurationMinutes: res.Remaining.DurationMinutes(),
	})
}

// MarkDelivered handles POST /api/v1/orders/:id/deliver.
func (s *Server) MarkDelivered(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	var req DeliverRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewMarkDeliveredCommand(id, actor, req.Proof)
	if err != nil {
		return err
	}
	o, err := s.h.MarkDelivered.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// FinalizeOrder handles POST /api/v1/orders/:id/finalize.
func (s *Server) FinalizeOrder(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewFinalizeOrderCommand(id, actor)
	if err != nil {
		return err
	}
	o, err := s.h.FinalizeOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	cmd, err := commands.NewCancelOrderCommand(id, actor, req.Reason)
	if err != nil {
		return err
	}
	o, err := s.h.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderResponse(o))
}
