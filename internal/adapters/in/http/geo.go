package http

import (
	"fmt"
	"net/http"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// CalculateDistance handles POST /api/v1/geo/distance.
func (s *Server) CalculateDistance(c echo.Context) error {
	var req DistanceRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	from, err := req.From.toDomain("from")
	if err != nil {
		return err
	}
	to, err := req.To.toDomain("to")
	if err != nil {
		return err
	}

	query, err := queries.NewCalculateDistanceQuery(from, to, vehicle.Class(req.VehicleClass))
	if err != nil {
		return err
	}
	res, err := s.h.CalculateDistance.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DistanceResponse{
		VehicleClass:    string(res.Class),
		DistanceKm:      res.DistanceKm,
		DistanceMiles:   res.DistanceMiles,
		DurationMinutes: res.DurationMinutes,
	})
}

// OptimizeRoute handles POST /api/v1/geo/route/optimize.
func (s *Server) OptimizeRoute(c echo.Context) error {
	var req OptimizeRouteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	waypoints := make([]ports.Place, 0, len(req.Waypoints))
	for i, w := range req.Waypoints {
		p, err := w.toDomain(fmt.Sprintf("waypoints[%d]", i))
		if err != nil {
			return err
		}
		waypoints = append(waypoints, p)
	}

	query, err := queries.NewOptimizeRouteQuery(waypoints, vehicle.Class(req.VehicleClass))
	if err != nil {
		return err
	}
	res, err := s.h.OptimizeRoute.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	ordered := make([]CoordinateDTO, 0, len(res.Waypoints))
	for _, w := range res.Waypoints {
		ordered = append(ordered, coordinateDTO(w))
	}
	return c.JSON(http.StatusOK, OptimizeRouteResponse{
		Order:              res.Order,
		Waypoints:          ordered,
		DistanceKm:         res.DistanceKm,
		OriginalDistanceKm: res.OriginalDistanceKm,
		SavingsKm:          res.SavingsKm,
		DurationMinutes:    res.DurationMinutes,
		Cost:               costEstimateDTO(res.Cost),
	})
}

// SearchAddresses handles GET /api/v1/geo/addresses/nearby?lat=&lon=&radiusKm=&limit=&mine=.
// With mine=true only the caller's own address book is searched.
func (s *Server) SearchAddresses(c echo.Context) error {
	actor, err := actorOf(c)
	if err != nil {
		return err
	}

	var (
		lat, lon, radiusKm float64
		limit              int
		mine               bool
	)
	if err := echo.QueryParamsBinder(c).
		MustFloat64("lat", &lat).
		MustFloat64("lon", &lon).
		MustFloat64("radiusKm", &radiusKm).
		Int("limit", &limit).
		Bool("mine", &mine).
		BindError(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("query", err)
	}
	center, err := kernel.NewCoordinate(lat, lon)
	if err != nil {
		return err
	}
	owner := ""
	if mine {
		owner = actor.UserID()
	}

	query, err := queries.NewSearchAddressesQuery(center, radiusKm, limit, owner)
	if err != nil {
		return err
	}
	matches, err := s.h.SearchAddresses.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	res := make([]AddressMatchDTO, 0, len(matches))
	for _, m := range matches {
		res = append(res, AddressMatchDTO{
			ID:         m.Address.ID.String(),
			Label:      m.Address.Label,
			Line:       m.Address.Line,
			City:       m.Address.City,
			Location:   coordinateDTO(m.Address.Location),
			DistanceKm: m.DistanceKm,
		})
	}
	return c.JSON(http.StatusOK, res)
}
