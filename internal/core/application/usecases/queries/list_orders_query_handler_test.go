package queries_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"freight/internal/adapters/out/postgres/pgtest"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"

	"github.com/stretchr/testify/suite"
)

type ListOrdersQueryHandlerTestSuite struct {
	suite.Suite
	store   *store
	handler queries.ListOrdersQueryHandler
	shipper kernel.Actor
	other   kernel.Actor
	carrier kernel.Actor

	oldestOpen *order.Order
	expensive  *order.Order
	cheap      *order.Order
	newestOpen *order.Order
	otherParty *order.Order
}

func TestListOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListOrdersQueryHandlerTestSuite))
}

func (suite *ListOrdersQueryHandlerTestSuite) SetupTest() {
	suite.store = newStore(suite.T())
	suite.handler = queries.NewListOrdersQueryHandler(suite.store.db)
	suite.shipper = pgtest.Actor(suite.T(), kernel.RoleShipper)
	suite.other = pgtest.Actor(suite.T(), kernel.RoleShipper)
	suite.carrier = pgtest.Actor(suite.T(), kernel.RoleCarrier)

	suite.oldestOpen = suite.store.order(suite.shipper, pgtest.Now)
	suite.expensive = suite.store.confirmed(suite.shipper, suite.carrier, 500_000, pgtest.Now.Add(time.Hour))
	suite.cheap = suite.store.confirmed(suite.shipper, suite.carrier, 200_000, pgtest.Now.Add(2*time.Hour))
	suite.newestOpen = suite.store.order(suite.shipper, pgtest.Now.Add(3*time.Hour))
	suite.otherParty = suite.store.order(suite.other, pgtest.Now.Add(30*time.Minute))
}

func (suite *ListOrdersQueryHandlerTestSuite) list(actor kernel.Actor, filter queries.OrderFilter) queries.ListOrdersQueryResponse {
	query, err := queries.NewListOrdersQuery(actor, filter)
	suite.Require().NoError(err)
	res, err := suite.handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	return res
}

func (suite *ListOrdersQueryHandlerTestSuite) ids(res queries.ListOrdersQueryResponse) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(res.Items))
	for _, item := range res.Items {
		ids = append(ids, item.ID)
	}
	return ids
}

func byID(orders ...*order.Order) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (suite *ListOrdersQueryHandlerTestSuite) TestDefaultsToNewestFirst() {
	res := suite.list(suite.shipper, queries.OrderFilter{})

	suite.Equal(int64(4), res.Total)
	suite.Equal(1, res.Page)
	suite.Equal(queries.DefaultPageLimit, res.Limit)
	suite.Equal([]kernel.UUID{suite.newestOpen.ID(), suite.cheap.ID(), suite.expensive.ID(), suite.oldestOpen.ID()}, suite.ids(res))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestPagination() {
	res := suite.list(suite.shipper, queries.OrderFilter{Page: 2, Limit: 3})

	suite.Equal(int64(4), res.Total)
	suite.Equal([]kernel.UUID{suite.oldestOpen.ID()}, suite.ids(res))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestMapsSummaryColumns() {
	res := suite.list(suite.carrier, queries.OrderFilter{Sort: queries.SortByPrice})

	suite.Require().Len(res.Items, 2)
	item := res.Items[0]
	suite.Equal(suite.cheap.Number(), item.Number)
	suite.Equal(order.Confirmed, item.Status)
	suite.True(item.ShipperID.IsEqual(suite.shipper.ProfileID()))
	suite.Require().NotNil(item.CarrierID)
	suite.True(item.CarrierID.IsEqual(suite.carrier.ProfileID()))
	suite.Require().NotNil(item.TotalPrice)
	suite.Equal(int64(200_000), *item.TotalPrice)
	suite.InDelta(suite.cheap.Route().DistanceKm(), item.DistanceKm, 1e-9)
	suite.InDelta(pgtest.Dakar.Latitude(), item.Departure.Latitude(), 1e-9)
	suite.Equal(kernel.GoodsGeneral, item.GoodsType)
	suite.True(suite.cheap.CreatedAt().Equal(item.CreatedAt))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestScopes() {
	suite.ElementsMatch([]kernel.UUID{suite.expensive.ID(), suite.cheap.ID()},
		suite.ids(suite.list(suite.carrier, queries.OrderFilter{})))
	suite.ElementsMatch([]kernel.UUID{suite.oldestOpen.ID(), suite.newestOpen.ID(), suite.otherParty.ID()},
		suite.ids(suite.list(suite.carrier, queries.OrderFilter{Marketplace: true})))
	suite.ElementsMatch([]kernel.UUID{suite.otherParty.ID()},
		suite.ids(suite.list(suite.other, queries.OrderFilter{Marketplace: true})))
	suite.Equal(int64(5), suite.list(pgtest.Actor(suite.T(), kernel.RoleAdmin), queries.OrderFilter{}).Total)
}

func (suite *ListOrdersQueryHandlerTestSuite) TestFilters() {
	from := pgtest.Now.Add(time.Hour)
	to := pgtest.Now.Add(2 * time.Hour)
	minPrice := int64(300_000)

	suite.ElementsMatch([]kernel.UUID{suite.expensive.ID(), suite.cheap.ID()},
		suite.ids(suite.list(suite.shipper, queries.OrderFilter{Statuses: []order.Status{order.Confirmed}})))
	suite.ElementsMatch([]kernel.UUID{suite.expensive.ID(), suite.cheap.ID()},
		suite.ids(suite.list(suite.shipper, queries.OrderFilter{CreatedFrom: &from, CreatedTo: &to})))
	suite.ElementsMatch([]kernel.UUID{suite.expensive.ID()},
		suite.ids(suite.list(suite.shipper, queries.OrderFilter{MinPrice: &minPrice})))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestSortByPriceKeepsUnpricedLast() {
	unpriced := byID(suite.oldestOpen, suite.newestOpen)

	asc := suite.list(suite.shipper, queries.OrderFilter{Sort: queries.SortByPrice})
	desc := suite.list(suite.shipper, queries.OrderFilter{Sort: queries.SortByPrice, Descending: true})

	suite.Equal(append([]kernel.UUID{suite.cheap.ID(), suite.expensive.ID()}, unpriced...), suite.ids(asc))
	suite.Equal(append([]kernel.UUID{suite.expensive.ID(), suite.cheap.ID()}, unpriced...), suite.ids(desc))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestSortByStatusFollowsLifecycle() {
	res := suite.list(suite.shipper, queries.OrderFilter{Sort: queries.SortByStatus})

	expected := append(byID(suite.oldestOpen, suite.newestOpen), byID(suite.expensive, suite.cheap)...)
	suite.Equal(expected, suite.ids(res))
}

func (suite *ListOrdersQueryHandlerTestSuite) TestCanceledContext() {
	query, err := queries.NewListOrdersQuery(suite.shipper, queries.OrderFilter{})
	suite.Require().NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = suite.handler.Handle(ctx, query)

	suite.Require().Error(err)
}
