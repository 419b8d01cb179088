package http

import (
	"net/http"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// SubmitQuote handles POST /api/v1/orders/:id/quotes.
func (s *Server) SubmitQuote(c echo.Context) error {
	actor, orderID, err := target(c)
	if err != nil {
		return err
	}
	var req SubmitQuoteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	var vehicleID *kernel.UUID
	if req.VehicleID != nil {
		id, err := kernel.UUIDFromString(*req.VehicleID)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause("vehicleId", err)
		}
		vehicleID = &id
	}
	breakdown, err := req.Breakdown.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewSubmitQuoteCommand(kernel.NewUUID(), orderID, actor, vehicleID, breakdown,
		req.ValidUntil, req.Notes, req.Send)
	if err != nil {
		return err
	}
	res, err := s.h.SubmitQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s.quoteWithOrder(res))
}

// AutoQuote handles POST /api/v1/orders/:id/quotes/auto.
func (s *Server) AutoQuote(c echo.Context) error {
	actor, orderID, err := target(c)
	if err != nil {
		return err
	}
	var req AutoQuoteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	cmd, err := commands.NewAutoQuoteCommand(kernel.NewUUID(), orderID, actor, req.Send)
	if err != nil {
		return err
	}
	res, err := s.h.AutoQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AutoQuoteResponse{
		Quote:    s.quote(res.Quote),
		Order:    orderResponse(res.Order),
		Vehicle:  vehicleDTO(res.Vehicle),
		Estimate: costEstimateDTO(res.Estimate),
	})
}

// SendQuote handles POST /api/v1/quotes/:id/send.
func (s *Server) SendQuote(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSendQuoteCommand(id, actor)
	if err != nil {
		return err
	}
	res, err := s.h.SendQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.quoteWithOrder(res))
}

// AcceptQuote handles POST /api/v1/quotes/:id/accept.
func (s *Server) AcceptQuote(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAcceptQuoteCommand(id, actor)
	if err != nil {
		return err
	}
	res, err := s.h.AcceptQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	superseded := make([]QuoteResponse, 0, len(res.Superseded))
	for _, q := range res.Superseded {
		superseded = append(superseded, s.quote(q))
	}
	return c.JSON(http.StatusOK, AcceptQuoteResponse{
		Quote:      s.quote(res.Quote),
		Order:      orderResponse(res.Order),
		Superseded: superseded,
	})
}

// RejectQuote handles POST /api/v1/quotes/:id/reject.
func (s *Server) RejectQuote(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRejectQuoteCommand(id, actor)
	if err != nil {
		return err
	}
	res, err := s.h.RejectQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s.quoteWithOrder(res))
}

// ReviseQuote handles POST /api/v1/quotes/:id/revise.
func (s *Server) ReviseQuote(c echo.Context) error {
	actor, id, err := target(c)
	if err != nil {
		return err
	}
	var req ReviseQuoteRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	breakdown, err := req.Breakdown.toDomain()
	if err != nil {
		return err
	}

	cmd, err := commands.NewReviseQuoteCommand(id, kernel.NewUUID(), actor, breakdown, req.ValidUntil, req.Notes)
	if err != nil {
		return err
	}
	res, err := s.h.ReviseQuote.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ReviseQuoteResponse{
		Previous: s.quote(res.Previous),
		Revision: s.quote(res.Revision),
	})
}

func (s *Server) quote(q *quote.Quote) QuoteResponse {
	return quoteResponse(q, q.EffectiveStatus(s.clock.Now()))
}

func (s *Server) quoteWithOrder(res commands.QuoteResult) QuoteWithOrderResponse {
	return QuoteWithOrderResponse{Quote: s.quote(res.Quote), Order: orderResponse(res.Order)}
}
