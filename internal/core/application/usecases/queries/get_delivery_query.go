package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves one delivery task.
type GetDeliveryQuery struct {
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query for one delivery.
func NewGetDeliveryQuery(deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{deliveryID: deliveryID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the requested delivery.
func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// GetDeliveryQueryResponse is the delivery read model.
type GetDeliveryQueryResponse struct {
	ID                 string   `json:"id"`
	OrderID            string   `json:"order_id"`
	Status             string   `json:"status"`
	PickupAddress      string   `json:"pickup_address"`
	PickupLat          *float64 `json:"pickup_lat,omitempty"`
	PickupLon          *float64 `json:"pickup_lon,omitempty"`
	DropoffAddress     string   `json:"dropoff_address"`
	DropoffLat         *float64 `json:"dropoff_lat,omitempty"`
	DropoffLon         *float64 `json:"dropoff_lon,omitempty"`
	Instructions       string   `json:"instructions,omitempty"`
	Fee                string   `json:"fee"`
	CourierID          *string  `json:"courier_id,omitempty"`
	DistanceM          *float64 `json:"distance_m,omitempty"`
	EstimatedDurationS *int64   `json:"estimated_duration_s,omitempty"`
	AssignedAt         *string  `json:"assigned_at,omitempty"`
	AcceptedAt         *string  `json:"accepted_at,omitempty"`
	StartedAt          *string  `json:"started_at,omitempty"`
	CompletedAt        *string  `json:"completed_at,omitempty"`
	ProofRef           string   `json:"proof_ref,omitempty"`
	SignatureRef       string   `json:"signature_ref,omitempty"`
	FailureReason      string   `json:"failure_reason,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}
