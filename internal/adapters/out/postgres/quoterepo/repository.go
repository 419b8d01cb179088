package quoterepo

import (
	"context"
	"errors"
	"time"

	"freight/internal/adapters/out/postgres/dberr"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/quote"
	"freight/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormQuoteRepository implements ports.QuoteRepository using GORM.
type GormQuoteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate kernel.EventSource)
}

func NewGormQuoteRepository(db *gorm.DB, tracker aggregateTracker) *GormQuoteRepository {
	return &GormQuoteRepository{
		db:      db,
		tracker: tracker,
	}
}

// ActiveStatusNames are the stored names of statuses covered by the
// one-active-quote-per-carrier index.
func ActiveStatusNames() []string {
	names := make([]string, 0, len(quote.ActiveStatuses()))
	for _, s := range quote.ActiveStatuses() {
		names = append(names, s.String())
	}
	return names
}

// Add inserts a quote at version 1. A second active quote for the same order
// and carrier violates the partial unique index and surfaces as a conflict.
func (r *GormQuoteRepository) Add(ctx context.Context, aggregate *quote.Quote) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if dberr.IsDuplicate(err) {
			return errs.NewConflictErrorWithCause("quote", "carrier already has an active quote for this order", err)
		}
		return dberr.Wrap("add quote", "quote", err)
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the quote if the stored version still matches.
func (r *GormQuoteRepository) Update(ctx context.Context, aggregate *quote.Quote) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	dto := fromDomain(aggregate)
	dto.Version = expected + 1

	result := r.db.WithContext(ctx).
		Model(&QuoteDTO{}).
		Where("id = ? AND version = ?", dto.ID, expected).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		if dberr.IsDuplicate(result.Error) {
			return errs.NewConflictErrorWithCause("quote", "carrier already has an active quote for this order", result.Error)
		}
		return dberr.Wrap("update quote", "quote", result.Error)
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&QuoteDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return dberr.Wrap("update quote", "quote", err)
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("quote", aggregate.ID().String())
		}
		return errs.NewConcurrentModificationError("quote", aggregate.ID().String(), expected)
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormQuoteRepository) Get(ctx context.Context, id kernel.UUID) (*quote.Quote, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto QuoteDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("quote", id.String())
		}
		return nil, dberr.Wrap("get quote", "quote", err)
	}

	return toDomain(dto)
}

// GetByOrder returns the order's quotes oldest first.
func (r *GormQuoteRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*quote.Quote, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []QuoteDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap("list quotes", "quote", err)
	}

	return toDomainAll(dtos)
}

// GetOverdue returns active quotes whose validity ended at or before now, the
// longest overdue first.
func (r *GormQuoteRepository) GetOverdue(ctx context.Context, now time.Time, limit int) ([]*quote.Quote, error) {
	var dtos []QuoteDTO
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND valid_until <= ?", ActiveStatusNames(), now.UTC()).
		Order("valid_until, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, dberr.Wrap("list overdue quotes", "quote", err)
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []QuoteDTO) ([]*quote.Quote, error) {
	quotes := make([]*quote.Quote, 0, len(dtos))
	for _, dto := range dtos {
		q, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}
