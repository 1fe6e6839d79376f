// Package deliveryrepo persists delivery tasks and their evaluations.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryDTO is the database row for one delivery task. Pickup coordinates
// are nullable: a failed merchant lookup creates a degraded task with only a
// textual pickup address.
type DeliveryDTO struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID            uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Status             string    `gorm:"size:32;index"`
	PickupAddress      string
	PickupLat          *float64 `gorm:"index:idx_deliveries_pickup"`
	PickupLon          *float64 `gorm:"index:idx_deliveries_pickup"`
	DropoffAddress     string
	DropoffLat         *float64
	DropoffLon         *float64
	Instructions       string
	Fee                decimal.Decimal `gorm:"type:numeric(12,2)"`
	CourierID          *uuid.UUID      `gorm:"type:uuid;index"`
	DistanceM          *float64
	EstimatedDurationS *int64
	AssignedAt         *time.Time
	AcceptedAt         *time.Time
	StartedAt          *time.Time
	CompletedAt        *time.Time
	ProofRef           string
	SignatureRef       string
	FailureReason      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName maps the DTO onto the "deliveries" table.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// EvaluationDTO is one client rating row. The unique index on DeliveryID
// enforces one evaluation per delivery at the database level.
type EvaluationDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID      uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	CourierID       uuid.UUID `gorm:"type:uuid;index"`
	ClientID        uuid.UUID `gorm:"type:uuid"`
	Note            int
	Punctuality     int
	Professionalism int
	PackageCare     int
	Comment         string
	CreatedAt       time.Time
}

// TableName maps the DTO onto the "evaluations" table.
func (EvaluationDTO) TableName() string {
	return "evaluations"
}

func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:             aggregate.ID().Bytes(),
		OrderID:        aggregate.OrderID().Bytes(),
		Status:         aggregate.Status().String(),
		PickupAddress:  aggregate.PickupAddress(),
		DropoffAddress: aggregate.DropoffAddress(),
		Instructions:   aggregate.Instructions(),
		Fee:            aggregate.Fee(),
		DistanceM:      aggregate.DistanceM(),
		AssignedAt:     aggregate.AssignedAt(),
		AcceptedAt:     aggregate.AcceptedAt(),
		StartedAt:      aggregate.StartedAt(),
		CompletedAt:    aggregate.CompletedAt(),
		ProofRef:       aggregate.ProofRef(),
		SignatureRef:   aggregate.SignatureRef(),
		FailureReason:  aggregate.FailureReason(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}

	if point := aggregate.PickupPoint(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		dto.PickupLat, dto.PickupLon = &lat, &lon
	}
	if point := aggregate.DropoffPoint(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		dto.DropoffLat, dto.DropoffLon = &lat, &lon
	}
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		dto.CourierID = &raw
	}
	if d := aggregate.EstimatedDuration(); d != nil {
		seconds := int64(d.Seconds())
		dto.EstimatedDurationS = &seconds
	}

	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	pickupPoint, err := pointFromColumns(dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}
	dropoffPoint, err := pointFromColumns(dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	var estimatedDuration *time.Duration
	if dto.EstimatedDurationS != nil {
		d := time.Duration(*dto.EstimatedDurationS) * time.Second
		estimatedDuration = &d
	}

	return delivery.RestoreDelivery(
		id, orderID,
		dto.PickupAddress, pickupPoint,
		dto.DropoffAddress, dropoffPoint,
		dto.Instructions, dto.Fee,
		courierID, dto.DistanceM, estimatedDuration, status,
		dto.AssignedAt, dto.AcceptedAt, dto.StartedAt, dto.CompletedAt,
		dto.ProofRef, dto.SignatureRef, dto.FailureReason,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func pointFromColumns(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil
	}
	point, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &point, nil
}

func evaluationFromDomain(evaluation *delivery.Evaluation) EvaluationDTO {
	return EvaluationDTO{
		ID:              evaluation.ID().Bytes(),
		DeliveryID:      evaluation.DeliveryID().Bytes(),
		CourierID:       evaluation.CourierID().Bytes(),
		ClientID:        evaluation.ClientID().Bytes(),
		Note:            evaluation.Note(),
		Punctuality:     evaluation.Punctuality(),
		Professionalism: evaluation.Professionalism(),
		PackageCare:     evaluation.PackageCare(),
		Comment:         evaluation.Comment(),
		CreatedAt:       evaluation.CreatedAt(),
	}
}

func evaluationToDomain(dto EvaluationDTO) (*delivery.Evaluation, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}

	return delivery.RestoreEvaluation(
		id, deliveryID, courierID, clientID,
		dto.Note, dto.Punctuality, dto.Professionalism, dto.PackageCare,
		dto.Comment, dto.CreatedAt,
	)
}
