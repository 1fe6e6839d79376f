package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
// Update is the compare-and-swap point of the whole dispatch flow: it writes
// only if the stored status still equals the status the aggregate was loaded
// with, so the first courier to accept wins and every loser sees a
// ConflictError.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate under the
	// loaded-status guard. A lost race returns a ConflictError.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier, or an
	// ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByOrder retrieves the delivery created for an order, or an
	// ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetAllByCourier retrieves a courier's deliveries, newest first.
	GetAllByCourier(ctx context.Context, courierID kernel.UUID) ([]*delivery.Delivery, error)

	// GetAllUnassigned retrieves every delivery waiting in the pool.
	GetAllUnassigned(ctx context.Context) ([]*delivery.Delivery, error)
}

// EvaluationRepository defines the persistence contract for delivery
// evaluations. A delivery is evaluated at most once; Add surfaces a second
// attempt as a ConflictError.
type EvaluationRepository interface {
	// Add persists a new evaluation. A duplicate for the same delivery
	// returns a ConflictError.
	Add(ctx context.Context, evaluation *delivery.Evaluation) error

	// GetByDelivery retrieves the evaluation of a delivery, or an
	// ObjectNotFoundError.
	GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*delivery.Evaluation, error)

	// GetAllByCourier retrieves every evaluation of a courier.
	GetAllByCourier(ctx context.Context, courierID kernel.UUID) ([]*delivery.Evaluation, error)
}
