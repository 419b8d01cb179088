package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads order summaries straight from the orders table.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(db)
//	res, err := handler.Handle(ctx, query)
//	fmt.Printf("page %d: %d of %d orders\n", res.Page, len(res.Items), res.Total)
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

type orderSummaryRow struct {
	ID              uuid.UUID
	Number          string
	Status          string
	ShipperID       uuid.UUID
	CarrierID       uuid.NullUUID
	DepartureLat    float64
	DepartureLon    float64
	DestinationLat  float64
	DestinationLon  float64
	DistanceKm      float64
	DurationMinutes int
	GoodsWeightKg   float64
	GoodsType       string
	PriceTotal      *int64
	CreatedAt       time.Time
}

var summaryColumns = []string{
	"id", "number", "status", "shipper_id", "carrier_id",
	"departure_lat", "departure_lon", "destination_lat", "destination_lon",
	"distance_km", "duration_minutes", "goods_weight_kg", "goods_type", "price_total", "created_at",
}

// Handle returns the requested page. Ties in the sort column are broken by
// order id so pages never overlap.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}
	f := query.Filter()

	var total int64
	if err := h.db.WithContext(ctx).
		Table("orders").
		Scopes(scopeToActor(query.Actor(), f.Marketplace), filterOrders(f)).
		Count(&total).Error; err != nil {
		return ListOrdersQueryResponse{}, errs.NewStorageError("count orders", err)
	}

	var rows []orderSummaryRow
	if err := h.db.WithContext(ctx).
		Table("orders").
		Select(summaryColumns).
		Scopes(scopeToActor(query.Actor(), f.Marketplace), filterOrders(f)).
		Order(orderClause(f)).
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&rows).Error; err != nil {
		return ListOrdersQueryResponse{}, errs.NewStorageError("list orders", err)
	}

	items := make([]OrderSummary, 0, len(rows))
	for _, row := range rows {
		item, err := row.toSummary()
		if err != nil {
			return ListOrdersQueryResponse{}, err
		}
		items = append(items, item)
	}

	return ListOrdersQueryResponse{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func scopeToActor(actor kernel.Actor, marketplace bool) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		switch {
		case actor.IsAdmin():
			return tx
		case actor.IsCarrier() && marketplace:
			return tx.Where("status IN ?", statusNames(openStatuses()))
		case actor.IsCarrier():
			return tx.Where("carrier_id = ?", actor.ProfileID().Bytes())
		default:
			return tx.Where("shipper_id = ?", actor.ProfileID().Bytes())
		}
	}
}

func filterOrders(f OrderFilter) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if len(f.Statuses) > 0 {
			tx = tx.Where("status IN ?", statusNames(f.Statuses))
		}
		if f.CreatedFrom != nil {
			tx = tx.Where("created_at >= ?", f.CreatedFrom.UTC())
		}
		if f.CreatedTo != nil {
			tx = tx.Where("created_at <= ?", f.CreatedTo.UTC())
		}
		if f.MinPrice != nil {
			tx = tx.Where("price_total >= ?", *f.MinPrice)
		}
		if f.MaxPrice != nil {
			tx = tx.Where("price_total <= ?", *f.MaxPrice)
		}
		return tx
	}
}

// orderClause builds the ORDER BY. Unpriced orders come last in both
// directions, and statuses sort by lifecycle progression, not by name.
func orderClause(f OrderFilter) string {
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}

	switch f.Sort {
	case SortByPrice:
		return fmt.Sprintf("CASE WHEN price_total IS NULL THEN 1 ELSE 0 END, price_total %s, id", dir)
	case SortByStatus:
		return fmt.Sprintf("%s %s, id", statusRank(), dir)
	default:
		return fmt.Sprintf("created_at %s, id", dir)
	}
}

func statusRank() string {
	var b strings.Builder
	b.WriteString("CASE status")
	for _, s := range order.Statuses() {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", s, int(s))
	}
	b.WriteString(" ELSE 0 END")
	return b.String()
}

func openStatuses() []order.Status {
	var open []order.Status
	for _, s := range order.Statuses() {
		if s.AcceptsQuotes() {
			open = append(open, s)
		}
	}
	return open
}

func statusNames(statuses []order.Status) []string {
	names := make([]string, 0, len(statuses))
	for _, s := range statuses {
		names = append(names, s.String())
	}
	return names
}

func (r orderSummaryRow) toSummary() (OrderSummary, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return OrderSummary{}, err
	}
	shipperID, err := kernel.UUIDFromBytes(r.ShipperID[:])
	if err != nil {
		return OrderSummary{}, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return OrderSummary{}, err
	}
	departure, err := kernel.NewCoordinate(r.DepartureLat, r.DepartureLon)
	if err != nil {
		return OrderSummary{}, err
	}
	destination, err := kernel.NewCoordinate(r.DestinationLat, r.DestinationLon)
	if err != nil {
		return OrderSummary{}, err
	}

	summary := OrderSummary{
		ID:              id,
		Number:          r.Number,
		Status:          status,
		ShipperID:       shipperID,
		Departure:       departure,
		Destination:     destination,
		DistanceKm:      r.DistanceKm,
		DurationMinutes: r.DurationMinutes,
		WeightKg:        r.GoodsWeightKg,
		GoodsType:       kernel.GoodsType(r.GoodsType),
		TotalPrice:      r.PriceTotal,
		CreatedAt:       r.CreatedAt.UTC(),
	}
	if r.CarrierID.Valid {
		carrierID, idErr := kernel.UUIDFromBytes(r.CarrierID.UUID[:])
		if idErr != nil {
			return OrderSummary{}, idErr
		}
		summary.CarrierID = &carrierID
	}
	return summary, nil
}
