package ports

import (
	"context"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for transport order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate. The stored version becomes 1.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order only if the stored version
	// still equals aggregate.Version(). A lost race fails with
	// errs.ConcurrentModificationError and the aggregate is left untouched.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	// Returns errs.ObjectNotFoundError when the order does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
