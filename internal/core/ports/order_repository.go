package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate. The write is
	// guarded on the aggregate's loaded status: a concurrent status change
	// surfaces as a ConflictError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier, or an
	// ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllByClient retrieves a client's orders, newest first.
	GetAllByClient(ctx context.Context, clientID kernel.UUID) ([]*order.Order, error)

	// GetAllByMerchant retrieves a merchant's orders, newest first.
	GetAllByMerchant(ctx context.Context, merchantID kernel.UUID) ([]*order.Order, error)
}
