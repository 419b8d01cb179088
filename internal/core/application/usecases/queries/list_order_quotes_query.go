package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrListOrderQuotesQueryIsNotConstructed = errors.New(
	"ListOrderQuotesQuery must be created via NewListOrderQuotesQuery constructor",
)

// ListOrderQuotesQuery lists the quotes of one order with effective statuses.
type ListOrderQuotesQuery struct {
	orderID kernel.UUID
	actor   kernel.Actor

	guard guard.ConstructorGuard
}

func NewListOrderQuotesQuery(orderID kernel.UUID, actor kernel.Actor) (ListOrderQuotesQuery, error) {
	if err := errors.Join(requireID("orderID", orderID), requireActor(actor)); err != nil {
		return ListOrderQuotesQuery{}, err
	}
	return ListOrderQuotesQuery{orderID: orderID, actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrderQuotesQuery) Validate() error {
	return q.guard.Validate(ErrListOrderQuotesQueryIsNotConstructed)
}

func (q ListOrderQuotesQuery) OrderID() kernel.UUID { return q.orderID }
func (q ListOrderQuotesQuery) Actor() kernel.Actor  { return q.actor }
