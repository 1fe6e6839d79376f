package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrListAvailableDeliveriesQueryIsNotConstructed = errors.New(
	"ListAvailableDeliveriesQuery must be created via NewListAvailableDeliveriesQuery constructor",
)

// ListAvailableDeliveriesQuery lists unassigned delivery tasks near a point.
// The center is optional: without one the full pool is listed in creation
// order, which is what the ops dashboard wants.
type ListAvailableDeliveriesQuery struct {
	center  *kernel.GeoPoint
	radiusM float64

	guard guard.ConstructorGuard
}

// NewListAvailableDeliveriesQuery creates a pool listing query. A non-nil
// center must come with a positive radius.
func NewListAvailableDeliveriesQuery(center *kernel.GeoPoint, radiusM float64) (ListAvailableDeliveriesQuery, error) {
	if center != nil {
		if err := center.Validate(); err != nil {
			return ListAvailableDeliveriesQuery{}, err
		}
		if radiusM <= 0 {
			return ListAvailableDeliveriesQuery{}, errs.NewValueIsInvalidError("radius must be positive")
		}
	}
	return ListAvailableDeliveriesQuery{
		center:  center,
		radiusM: radiusM,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListAvailableDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListAvailableDeliveriesQueryIsNotConstructed)
}

// Center returns the optional search center.
func (q ListAvailableDeliveriesQuery) Center() *kernel.GeoPoint {
	return q.center
}

// RadiusM returns the search radius in meters.
func (q ListAvailableDeliveriesQuery) RadiusM() float64 {
	return q.radiusM
}

// AvailableDeliveryResponse is one pooled task in the listing.
type AvailableDeliveryResponse struct {
	ID             string   `json:"id"`
	OrderID        string   `json:"order_id"`
	PickupAddress  string   `json:"pickup_address"`
	PickupLat      *float64 `json:"pickup_lat,omitempty"`
	PickupLon      *float64 `json:"pickup_lon,omitempty"`
	DropoffAddress string   `json:"dropoff_address"`
	Fee            string   `json:"fee"`
	DistanceM      *float64 `json:"distance_m,omitempty"`
	CreatedAt      string   `json:"created_at"`
}
