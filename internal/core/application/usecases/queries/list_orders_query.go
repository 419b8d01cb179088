package queries

import (
	"errors"
	"fmt"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// OrderSort names the column listings are sorted by.
type OrderSort string

const (
	SortByDate   OrderSort = "date"
	SortByPrice  OrderSort = "price"
	SortByStatus OrderSort = "status"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// OrderFilter narrows a listing. Zero values mean "no restriction".
//
// Marketplace switches a carrier from its own orders to the orders that still
// accept quotes. It is ignored for other roles.
type OrderFilter struct {
	Statuses    []order.Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	MinPrice    *int64
	MaxPrice    *int64
	Marketplace bool
	Sort        OrderSort
	Descending  bool
	Page        int
	Limit       int
}

// ListOrdersQuery lists the orders an actor takes part in, one page at a time.
// Shippers see the orders they created, carriers the orders assigned to them,
// administrators every order.
//
// Example:
//
//	query, err := NewListOrdersQuery(shipper, OrderFilter{
//	    Statuses: []order.Status{order.InTransit},
//	    Sort:     SortByPrice,
//	    Page:     2,
//	})
type ListOrdersQuery struct {
	actor  kernel.Actor
	filter OrderFilter

	guard guard.ConstructorGuard
}

// NewListOrdersQuery fills defaults (page 1, DefaultPageLimit, newest first)
// and validates the filter.
func NewListOrdersQuery(actor kernel.Actor, filter OrderFilter) (ListOrdersQuery, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = DefaultPageLimit
	}
	if filter.Sort == "" {
		filter.Sort = SortByDate
		filter.Descending = true
	}

	if err := errors.Join(requireActor(actor), validateFilter(filter)); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: actor, filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() kernel.Actor { return q.actor }
func (q ListOrdersQuery) Filter() OrderFilter { return q.filter }

func validateFilter(f OrderFilter) error {
	var errList []error
	if f.Page < 1 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("page", f.Page, 1, "unbounded"))
	}
	if f.Limit < 1 || f.Limit > MaxPageLimit {
		errList = append(errList, errs.NewValueIsOutOfRangeError("limit", f.Limit, 1, MaxPageLimit))
	}
	switch f.Sort {
	case SortByDate, SortByPrice, SortByStatus:
	default:
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("sort", fmt.Errorf("unknown sort %q", f.Sort)))
	}
	for _, s := range f.Statuses {
		if err := s.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if f.CreatedFrom != nil && f.CreatedTo != nil && f.CreatedTo.Before(*f.CreatedFrom) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("createdTo", errors.New("ends before createdFrom")))
	}
	if f.MinPrice != nil && *f.MinPrice < 0 {
		errList = append(errList, errs.NewValueIsOutOfRangeError("minPrice", *f.MinPrice, 0, "unbounded"))
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MaxPrice < *f.MinPrice {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("maxPrice", errors.New("below minPrice")))
	}
	return errors.Join(errList...)
}

// OrderSummary is one listing row.
type OrderSummary struct {
	ID              kernel.UUID
	Number          string
	Status          order.Status
	ShipperID       kernel.UUID
	CarrierID       *kernel.UUID
	Departure       kernel.Coordinate
	Destination     kernel.Coordinate
	DistanceKm      float64
	DurationMinutes int
	WeightKg        float64
	GoodsType       kernel.GoodsType
	TotalPrice      *int64
	CreatedAt       time.Time
}

// ListOrdersQueryResponse is one page plus the number of matching orders.
type ListOrdersQueryResponse struct {
	Items []OrderSummary
	Total int64
	Page  int
	Limit int
}
