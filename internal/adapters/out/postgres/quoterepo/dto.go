// Package quoterepo persists quote aggregates with GORM.
package quoterepo

import (
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/quote"

	"github.com/google/uuid"
)

// QuoteDTO is the "quotes" row. At most one row per (order_id, carrier_id) may
// hold an active status; the partial unique index is created by postgres.Migrate.
type QuoteDTO struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Number      string       `gorm:"size:32;uniqueIndex"`
	OrderID     uuid.UUID    `gorm:"type:uuid;index"`
	CarrierID   uuid.UUID    `gorm:"type:uuid;index"`
	VehicleID   *uuid.UUID   `gorm:"type:uuid"`
	RevisionOf  *uuid.UUID   `gorm:"type:uuid"`
	Amounts     BreakdownDTO `gorm:"embedded;embeddedPrefix:amount_"`
	Notes       string       `gorm:"size:1000"`
	ValidUntil  time.Time    `gorm:"index"`
	Status      string       `gorm:"size:20;index"`
	CreatedAt   time.Time    `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime:false"`
	SentAt      *time.Time
	RespondedAt *time.Time
	Version     int64 `gorm:"not null"`
}

func (QuoteDTO) TableName() string {
	return "quotes"
}

// BreakdownDTO holds the itemized amounts in whole currency units.
// Subtotal and total are stored for reporting and recomputed on load.
type BreakdownDTO struct {
	Base       int64
	Distance   int64
	Weight     int64
	Volume     int64
	Surcharges int64
	Fees       int64
	Subtotal   int64
	Taxes      int64
	Total      int64
}

func fromDomain(q *quote.Quote) QuoteDTO {
	s := q.Snapshot()
	b := s.Breakdown

	return QuoteDTO{
		ID:         s.ID.Bytes(),
		Number:     s.Number,
		OrderID:    s.OrderID.Bytes(),
		CarrierID:  s.CarrierID.Bytes(),
		VehicleID:  optionalID(s.VehicleID),
		RevisionOf: optionalID(s.RevisionOf),
		Amounts: BreakdownDTO{
			Base:       b.Base(),
			Distance:   b.Distance(),
			Weight:     b.Weight(),
			Volume:     b.Volume(),
			Surcharges: b.Surcharges(),
			Fees:       b.Fees(),
			Subtotal:   b.Subtotal(),
			Taxes:      b.Taxes(),
			Total:      b.Total(),
		},
		Notes:       s.Notes,
		ValidUntil:  s.ValidUntil.UTC(),
		Status:      s.Status.String(),
		CreatedAt:   s.CreatedAt.UTC(),
		UpdatedAt:   s.UpdatedAt.UTC(),
		SentAt:      utc(s.SentAt),
		RespondedAt: utc(s.RespondedAt),
		Version:     s.Version,
	}
}

func toDomain(dto QuoteDTO) (*quote.Quote, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	carrierID, err := kernel.UUIDFromBytes(dto.CarrierID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := restoreID(dto.VehicleID)
	if err != nil {
		return nil, err
	}
	revisionOf, err := restoreID(dto.RevisionOf)
	if err != nil {
		return nil, err
	}

	a := dto.Amounts
	breakdown, err := quote.NewBreakdown(a.Base, a.Distance, a.Weight, a.Volume, a.Surcharges, a.Fees, a.Taxes)
	if err != nil {
		return nil, err
	}
	status, err := quote.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return quote.RestoreQuote(quote.Snapshot{
		ID:          id,
		Number:      dto.Number,
		OrderID:     orderID,
		CarrierID:   carrierID,
		VehicleID:   vehicleID,
		RevisionOf:  revisionOf,
		Breakdown:   breakdown,
		Notes:       dto.Notes,
		ValidUntil:  dto.ValidUntil.UTC(),
		Status:      status,
		CreatedAt:   dto.CreatedAt.UTC(),
		UpdatedAt:   dto.UpdatedAt.UTC(),
		SentAt:      utc(dto.SentAt),
		RespondedAt: utc(dto.RespondedAt),
		Version:     dto.Version,
	})
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
