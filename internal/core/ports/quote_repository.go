package ports

import (
	"context"
	"time"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/quote"
)

// QuoteRepository defines the persistence contract for quote aggregates.
type QuoteRepository interface {
	// Add persists a new quote. A second active quote for the same order and
	// carrier fails with errs.ConflictError.
	Add(ctx context.Context, aggregate *quote.Quote) error

	// Update persists changes with the same compare-and-swap rule as OrderRepository.Update.
	Update(ctx context.Context, aggregate *quote.Quote) error

	// Get retrieves a quote by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*quote.Quote, error)

	// GetByOrder returns every quote of an order, oldest first.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*quote.Quote, error)

	// GetOverdue returns up to limit quotes whose stored status is still active
	// although their validity window closed at or before now.
	GetOverdue(ctx context.Context, now time.Time, limit int) ([]*quote.Quote, error)
}
