package http

import (
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
	"freight/internal/core/domain/model/quote"
	"freight/internal/core/domain/model/vehicle"
	"freight/internal/core/domain/services"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// ErrorBody is the JSON body of every failed request.
type ErrorBody struct {
	Code      int    `json:"code"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type CoordinateDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c CoordinateDTO) toDomain() (kernel.Coordinate, error) {
	return kernel.NewCoordinate(c.Latitude, c.Longitude)
}

func coordinateDTO(c kernel.Coordinate) CoordinateDTO {
	return CoordinateDTO{Latitude: c.Latitude(), Longitude: c.Longitude()}
}

// PlaceDTO references a stored address or carries inline coordinates.
type PlaceDTO struct {
	AddressID *string  `json:"addressId,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

func (p PlaceDTO) toDomain(field string) (ports.Place, error) {
	var place ports.Place
	if p.AddressID != nil {
		id, err := kernel.UUIDFromString(*p.AddressID)
		if err != nil {
			return ports.Place{}, errs.NewValueIsInvalidErrorWithCause(field+".addressId", err)
		}
		place.AddressID = &id
	}
	switch {
	case p.Latitude == nil && p.Longitude == nil:
	case p.Latitude == nil || p.Longitude == nil:
		return ports.Place{}, errs.NewValueIsRequiredError(field + ".latitude and longitude")
	default:
		c, err := kernel.NewCoordinate(*p.Latitude, *p.Longitude)
		if err != nil {
			return ports.Place{}, errs.NewValueIsInvalidErrorWithCause(field, err)
		}
		place.Coordinate = &c
	}
	return place, nil
}

type GoodsDTO struct {
	WeightKg            float64 `json:"weightKg"`
	VolumeM3            float64 `json:"volumeM3"`
	DeclaredValue       int64   `json:"declaredValue"`
	GoodsType           string  `json:"goodsType"`
	SpecialRequirements string  `json:"specialRequirements,omitempty"`
}

type CreateOrderRequest struct {
	Departure   PlaceDTO   `json:"departure"`
	Destination PlaceDTO   `json:"destination"`
	Goods       GoodsDTO   `json:"goods"`
	PickupDate  *time.Time `json:"pickupDate,omitempty"`
}

type BreakdownDTO struct {
	Base       int64 `json:"base"`
	Distance   int64 `json:"distance"`
	Weight     int64 `json:"weight"`
	Volume     int64 `json:"volume"`
	Surcharges int64 `json:"surcharges"`
	Fees       int64 `json:"fees"`
	Subtotal   int64 `json:"subtotal"`
	Taxes      int64 `json:"taxes"`
	Total      int64 `json:"total"`
}

func (b BreakdownDTO) toDomain() (quote.Breakdown, error) {
	return quote.NewBreakdown(b.Base, b.Distance, b.Weight, b.Volume, b.Surcharges, b.Fees, b.Taxes)
}

func breakdownDTO(b quote.Breakdown) BreakdownDTO {
	return BreakdownDTO{
		Base:       b.Base(),
		Distance:   b.Distance(),
		Weight:     b.Weight(),
		Volume:     b.Volume(),
		Surcharges: b.Surcharges(),
		Fees:       b.Fees(),
		Subtotal:   b.Subtotal(),
		Taxes:      b.Taxes(),
		Total:      b.Total(),
	}
}

type SubmitQuoteRequest struct {
	VehicleID  *string      `json:"vehicleId,omitempty"`
	Breakdown  BreakdownDTO `json:"breakdown"`
	ValidUntil time.Time    `json:"validUntil"`
	Notes      string       `json:"notes,omitempty"`
	Send       bool         `json:"send"`
}

type AutoQuoteRequest struct {
	Send bool `json:"send"`
}

type ReviseQuoteRequest struct {
	Breakdown  BreakdownDTO `json:"breakdown"`
	ValidUntil time.Time    `json:"validUntil"`
	Notes      string       `json:"notes,omitempty"`
}

type AssignVehicleRequest struct {
	VehicleID string `json:"vehicleId"`
}

type DeliverRequest struct {
	Proof string `json:"proof"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type DistanceRequest struct {
	From         PlaceDTO `json:"from"`
	To           PlaceDTO `json:"to"`
	VehicleClass string   `json:"vehicleClass,omitempty"`
}

type OptimizeRouteRequest struct {
	Waypoints    []PlaceDTO `json:"waypoints"`
	VehicleClass string     `json:"vehicleClass,omitempty"`
}

type PriceDTO struct {
	Base     int64 `json:"base"`
	Distance int64 `json:"distance"`
	Weight   int64 `json:"weight"`
	Fee      int64 `json:"fee"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

type OrderResponse struct {
	ID                 string         `json:"id"`
	Number             string         `json:"number"`
	Status             string         `json:"status"`
	ShipperID          string         `json:"shipperId"`
	CarrierID          *string        `json:"carrierId"`
	VehicleID          *string        `json:"vehicleId"`
	AcceptedQuoteID    *string        `json:"acceptedQuoteId"`
	Departure          CoordinateDTO  `json:"departure"`
	Destination        CoordinateDTO  `json:"destination"`
	DistanceKm         float64        `json:"distanceKm"`
	DurationMinutes    int            `json:"durationMinutes"`
	Goods              GoodsDTO       `json:"goods"`
	PickupDate         *time.Time     `json:"pickupDate,omitempty"`
	Price              *PriceDTO      `json:"price"`
	TotalPrice         *int64         `json:"totalPrice"`
	CurrentPosition    *CoordinateDTO `json:"currentPosition,omitempty"`
	DeliveryProof      string         `json:"deliveryProof,omitempty"`
	CancellationReason string         `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	AssignedAt         *time.Time     `json:"assignedAt,omitempty"`
	StartedAt          *time.Time     `json:"startedAt,omitempty"`
	DeliveredAt        *time.Time     `json:"deliveredAt,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	CancelledAt        *time.Time     `json:"cancelledAt,omitempty"`
	Version            int64          `json:"version"`
}

func optionalID(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func orderResponse(o *order.Order) OrderResponse {
	g := o.Goods()
	res := OrderResponse{
		ID:              o.ID().String(),
		Number:          o.Number(),
		Status:          o.Status().String(),
		ShipperID:       o.ShipperID().String(),
		CarrierID:       optionalID(o.CarrierID()),
		VehicleID:       optionalID(o.VehicleID()),
		AcceptedQuoteID: optionalID(o.AcceptedQuoteID()),
		Departure:       coordinateDTO(o.Departure()),
		Destination:     coordinateDTO(o.Destination()),
		DistanceKm:      o.Route().DistanceKm(),
		DurationMinutes: o.Route().DurationMinutes(),
		Goods: GoodsDTO{
			WeightKg:            g.WeightKg(),
			VolumeM3:            g.VolumeM3(),
			DeclaredValue:       g.DeclaredValue(),
			GoodsType:           g.GoodsType().String(),
			SpecialRequirements: g.SpecialRequirements(),
		},
		PickupDate:         o.PickupDate(),
		TotalPrice:         o.TotalPrice(),
		DeliveryProof:      o.DeliveryProof(),
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt(),
		UpdatedAt:          o.UpdatedAt(),
		AssignedAt:         o.AssignedAt(),
		StartedAt:          o.StartedAt(),
		DeliveredAt:        o.DeliveredAt(),
		CompletedAt:        o.CompletedAt(),
		CancelledAt:        o.CancelledAt(),
		Version:            o.Version(),
	}
	if p := o.Price(); p != nil {
		res.Price = &PriceDTO{
			Base:     p.Base(),
			Distance: p.Distance(),
			Weight:   p.Weight(),
			Fee:      p.Fee(),
			Tax:      p.Tax(),
			Total:    p.Total(),
		}
	}
	if pos := o.CurrentPosition(); pos != nil {
		c := coordinateDTO(*pos)
		res.CurrentPosition = &c
	}
	return res
}

type QuoteResponse struct {
	ID          string       `json:"id"`
	Number      string       `json:"number"`
	OrderID     string       `json:"orderId"`
	CarrierID   string       `json:"carrierId"`
	VehicleID   *string      `json:"vehicleId"`
	RevisionOf  *string      `json:"revisionOf,omitempty"`
	Breakdown   BreakdownDTO `json:"breakdown"`
	ValidUntil  time.Time    `json:"validUntil"`
	Status      string       `json:"status"`
	Notes       string       `json:"notes,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	SentAt      *time.Time   `json:"sentAt,omitempty"`
	RespondedAt *time.Time   `json:"respondedAt,omitempty"`
}

// quoteResponse reports status instead of the stored one; callers pass the
// effective status so an overdue quote reads EXPIRE before the sweep stores it.
func quoteResponse(q *quote.Quote, status quote.Status) QuoteResponse {
	return QuoteResponse{
		ID:          q.ID().String(),
		Number:      q.Number(),
		OrderID:     q.OrderID().String(),
		CarrierID:   q.CarrierID().String(),
		VehicleID:   optionalID(q.VehicleID()),
		RevisionOf:  optionalID(q.RevisionOf()),
		Breakdown:   breakdownDTO(q.Breakdown()),
		ValidUntil:  q.ValidUntil(),
		Status:      status.String(),
		Notes:       q.Notes(),
		CreatedAt:   q.CreatedAt(),
		SentAt:      q.SentAt(),
		RespondedAt: q.RespondedAt(),
	}
}

func quoteViews(views []queries.QuoteView) []QuoteResponse {
	res := make([]QuoteResponse, 0, len(views))
	for _, v := range views {
		res = append(res, quoteResponse(v.Quote, v.EffectiveStatus))
	}
	return res
}

type OrderWithQuotesResponse struct {
	Order  OrderResponse   `json:"order"`
	Quotes []QuoteResponse `json:"quotes"`
}

type QuoteWithOrderResponse struct {
	Quote QuoteResponse `json:"quote"`
	Order OrderResponse `json:"order"`
}

type AcceptQuoteResponse struct {
	Quote      QuoteResponse   `json:"quote"`
	Order      OrderResponse   `json:"order"`
	Superseded []QuoteResponse `json:"superseded"`
}

type ReviseQuoteResponse struct {
	Previous QuoteResponse `json:"previous"`
	Revision QuoteResponse `json:"revision"`
}

type VehicleDTO struct {
	ID         string   `json:"id"`
	Plate      string   `json:"plate"`
	Class      string   `json:"class"`
	CapacityKg float64  `json:"capacityKg"`
	VolumeM3   float64  `json:"volumeM3"`
	GoodsTypes []string `json:"goodsTypes"`
}

func vehicleDTO(v *vehicle.Vehicle) VehicleDTO {
	types := make([]string, 0, len(v.GoodsTypes()))
	for _, t := range v.GoodsTypes() {
		types = append(types, t.String())
	}
	return VehicleDTO{
		ID:         v.ID().String(),
		Plate:      v.Plate(),
		Class:      string(v.Class()),
		CapacityKg: v.CapacityKg(),
		VolumeM3:   v.VolumeM3(),
		GoodsTypes: types,
	}
}

type CostEstimateDTO struct {
	Class           string  `json:"vehicleClass"`
	Currency        string  `json:"currency"`
	DistanceKm      float64 `json:"distanceKm"`
	DurationMinutes int     `json:"durationMinutes"`
	FuelLiters      float64 `json:"fuelLiters"`
	FuelCost        int64   `json:"fuelCost"`
	TollCost        int64   `json:"tollCost"`
	DriverCost      int64   `json:"driverCost"`
	TotalCost       int64   `json:"totalCost"`
	CarbonKg        float64 `json:"carbonKg"`
}

func costEstimateDTO(c services.CostEstimate) CostEstimateDTO {
	return CostEstimateDTO{
		Class:           string(c.Class),
		Currency:        c.Currency,
		DistanceKm:      c.DistanceKm,
		DurationMinutes: c.DurationMinutes,
		FuelLiters:      c.FuelLiters,
		FuelCost:        c.FuelCost,
		TollCost:        c.TollCost,
		DriverCost:      c.DriverCost,
		TotalCost:       c.TotalCost,
		CarbonKg:        c.CarbonKg,
	}
}

type AutoQuoteResponse struct {
	Quote    QuoteResponse   `json:"quote"`
	Order    OrderResponse   `json:"order"`
	Vehicle  VehicleDTO      `json:"vehicle"`
	Estimate CostEstimateDTO `json:"estimate"`
}

type PositionResponse struct {
	Order                    OrderResponse `json:"order"`
	RemainingDistanceKm      float64       `json:"remainingDistanceKm"`
	RemainingDurationMinutes int           `json:"remainingDurationMinutes"`
}

type OrderSummaryDTO struct {
	ID              string        `json:"id"`
	Number          string        `json:"number"`
	Status          string        `json:"status"`
	ShipperID       string        `json:"shipperId"`
	CarrierID       *string       `json:"carrierId"`
	Departure       CoordinateDTO `json:"departure"`
	Destination     CoordinateDTO `json:"destination"`
	DistanceKm      float64       `json:"distanceKm"`
	DurationMinutes int           `json:"durationMinutes"`
	WeightKg        float64       `json:"weightKg"`
	GoodsType       string        `json:"goodsType"`
	TotalPrice      *int64        `json:"totalPrice"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type OrderPageResponse struct {
	Items []OrderSummaryDTO `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func orderPageResponse(res queries.ListOrdersQueryResponse) OrderPageResponse {
	items := make([]OrderSummaryDTO, 0, len(res.Items))
	for _, s := range res.Items {
		items = append(items, OrderSummaryDTO{
			ID:              s.ID.String(),
			Number:          s.Number,
			Status:          s.Status.String(),
			ShipperID:       s.ShipperID.String(),
			CarrierID:       optionalID(s.CarrierID),
			Departure:       coordinateDTO(s.Departure),
			Destination:     coordinateDTO(s.Destination),
			DistanceKm:      s.DistanceKm,
			DurationMinutes: s.DurationMinutes,
			WeightKg:        s.WeightKg,
			GoodsType:       s.GoodsType.String(),
			TotalPrice:      s.TotalPrice,
			CreatedAt:       s.CreatedAt,
		})
	}
	return OrderPageResponse{Items: items, Total: res.Total, Page: res.Page, Limit: res.Limit}
}

type DistanceResponse struct {
	VehicleClass    string  `json:"vehicleClass"`
	DistanceKm      float64 `json:"distanceKm"`
	DistanceMiles   float64 `json:"distanceMiles"`
	DurationMinutes int     `json:"durationMinutes"`
}

type OptimizeRouteResponse struct {
	Order              []int           `json:"order"`
	Waypoints          []CoordinateDTO `json:"waypoints"`
	DistanceKm         float64         `json:"distanceKm"`
	OriginalDistanceKm float64         `json:"originalDistanceKm"`
	SavingsKm          float64         `json:"savingsKm"`
	DurationMinutes    int             `json:"durationMinutes"`
	Cost               CostEstimateDTO `json:"estimatedCost"`
}

type AddressMatchDTO struct {
	ID         string        `json:"id"`
	Label      string        `json:"label"`
	Line       string        `json:"line,omitempty"`
	City       string        `json:"city,omitempty"`
	Location   CoordinateDTO `json:"location"`
	DistanceKm float64       `json:"distanceKm"`
}
