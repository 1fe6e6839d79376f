package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler reads one delivery task.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryQueryHandler creates a handler for delivery lookups.
func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle retrieves the delivery, or an ObjectNotFoundError.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	var resp GetDeliveryQueryResponse
	var id, orderID uuid.UUID
	var courierID *uuid.UUID
	var fee decimal.Decimal
	var assignedAt, acceptedAt, startedAt, completedAt *time.Time
	var createdAt, updatedAt time.Time

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			status,
			pickup_address,
			pickup_lat,
			pickup_lon,
			dropoff_address,
			dropoff_lat,
			dropoff_lon,
			instructions,
			fee,
			courier_id,
			distance_m,
			estimated_duration_s,
			assigned_at,
			accepted_at,
			started_at,
			completed_at,
			proof_ref,
			signature_ref,
			failure_reason,
			created_at,
			updated_at
		FROM deliveries
		WHERE id = ?
	`, query.DeliveryID().Bytes()).Row()

	err := row.Scan(
		&id, &orderID, &resp.Status,
		&resp.PickupAddress, &resp.PickupLat, &resp.PickupLon,
		&resp.DropoffAddress, &resp.DropoffLat, &resp.DropoffLon,
		&resp.Instructions, &fee, &courierID,
		&resp.DistanceM, &resp.EstimatedDurationS,
		&assignedAt, &acceptedAt, &startedAt, &completedAt,
		&resp.ProofRef, &resp.SignatureRef, &resp.FailureReason,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetDeliveryQueryResponse{}, errs.NewObjectNotFoundError("delivery", query.DeliveryID())
		}
		return GetDeliveryQueryResponse{}, err
	}

	resp.ID = id.String()
	resp.OrderID = orderID.String()
	resp.Fee = fee.StringFixed(2)
	if courierID != nil {
		s := courierID.String()
		resp.CourierID = &s
	}
	resp.AssignedAt = formatTimePtr(assignedAt)
	resp.AcceptedAt = formatTimePtr(acceptedAt)
	resp.StartedAt = formatTimePtr(startedAt)
	resp.CompletedAt = formatTimePtr(completedAt)
	resp.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)

	return resp, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
