package queries

import (
	"context"

	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// GetOrderQueryHandler loads an order and its quotes from the repositories.
// Callers outside the order (carriers on an order that no longer accepts
// quotes, unrelated shippers) get an AuthorizationError.
type GetOrderQueryHandler struct {
	orders ports.OrderRepository
	quotes ports.QuoteRepository
	clock  ports.Clock
}

func NewGetOrderQueryHandler(orders ports.OrderRepository, quotes ports.QuoteRepository, clock ports.Clock) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders, quotes: quotes, clock: clock}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	if !o.CanSee(query.Actor()) {
		return GetOrderQueryResponse{}, errs.NewAuthorizationError(query.Actor().String(), "read order", "caller is not an order participant")
	}

	quotes, err := h.quotes.GetByOrder(ctx, o.ID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return GetOrderQueryResponse{
		Order:  o,
		Quotes: visibleQuotes(o, quotes, query.Actor(), h.clock.Now()),
	}, nil
}
