package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates
// and their position history.
type CourierRepository interface {
	// Add persists a new courier aggregate to storage.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier aggregate by its unique identifier, or an
	// ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves every courier currently opted in to offers,
	// optionally restricted to one vehicle type. The dispatcher narrows the
	// set further by position freshness and radius.
	GetAllAvailable(ctx context.Context, vehicle *courier.VehicleType) ([]*courier.Courier, error)

	// AddPositionSample appends one accepted GPS report to the history.
	AddPositionSample(ctx context.Context, sample *courier.PositionSample) error

	// GetPositionHistory retrieves a courier's samples within the window,
	// newest first.
	GetPositionHistory(ctx context.Context, courierID kernel.UUID, since time.Time) ([]*courier.PositionSample, error)

	// PrunePositionSamples deletes samples recorded before the cutoff and
	// reports how many rows went away.
	PrunePositionSamples(ctx context.Context, before time.Time) (int64, error)
}
