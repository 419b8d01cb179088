package queries

import (
	"context"
)

// ListOrderQuotesQueryHandler answers with the same visibility rules as
// GetOrderQueryHandler, without the order itself.
type ListOrderQuotesQueryHandler struct {
	orders GetOrderQueryHandler
}

func NewListOrderQuotesQueryHandler(orders GetOrderQueryHandler) ListOrderQuotesQueryHandler {
	return ListOrderQuotesQueryHandler{orders: orders}
}

func (h ListOrderQuotesQueryHandler) Handle(ctx context.Context, query ListOrderQuotesQuery) ([]QuoteView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	inner, err := NewGetOrderQuery(query.OrderID(), query.Actor())
	if err != nil {
		return nil, err
	}
	res, err := h.orders.Handle(ctx, inner)
	if err != nil {
		return nil, err
	}
	return res.Quotes, nil
}
