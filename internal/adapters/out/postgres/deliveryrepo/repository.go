package deliveryrepo

import (
	"context"
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository over GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a delivery repository on the given
// connection.
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add saves a new delivery task.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing delivery. The write is guarded on the status the
// aggregate was loaded in; this is what serializes courier acceptance races.
// Columns are written with Select so cleared fields (a refusal nulling the
// courier) actually reach the database.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("id = ? AND status = ?", dto.ID, aggregate.LoadedStatus().String()).
		Select(
			"Status", "CourierID", "DistanceM", "EstimatedDurationS",
			"AssignedAt", "AcceptedAt", "StartedAt", "CompletedAt",
			"ProofRef", "SignatureRef", "FailureReason", "UpdatedAt",
		).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewConflictError("delivery", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a delivery by ID, or an ObjectNotFoundError.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrder retrieves the delivery belonging to an order, or an
// ObjectNotFoundError.
func (r *GormDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery for order", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByCourier retrieves a courier's deliveries, newest first.
func (r *GormDeliveryRepository) GetAllByCourier(ctx context.Context, courierID kernel.UUID) ([]*delivery.Delivery, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&dtos, "courier_id = ?", courierID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	return mapAll(dtos)
}

// GetAllUnassigned retrieves the open task pool in creation order.
func (r *GormDeliveryRepository) GetAllUnassigned(ctx context.Context) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "status = ?", delivery.StatusUnassigned.String()).Error
	if err != nil {
		return nil, err
	}

	return mapAll(dtos)
}

func mapAll(dtos []DeliveryDTO) ([]*delivery.Delivery, error) {
	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, aggregate)
	}
	return deliveries, nil
}

// GormEvaluationRepository implements ports.EvaluationRepository over GORM.
type GormEvaluationRepository struct {
	db *gorm.DB
}

// NewGormEvaluationRepository creates an evaluation repository on the given
// connection.
func NewGormEvaluationRepository(db *gorm.DB) *GormEvaluationRepository {
	return &GormEvaluationRepository{db: db}
}

// Add saves a new evaluation. A second evaluation for the same delivery trips
// the unique index and comes back as a ConflictError.
func (r *GormEvaluationRepository) Add(ctx context.Context, evaluation *delivery.Evaluation) error {
	if err := evaluation.Validate(); err != nil {
		return err
	}

	dto := evaluationFromDomain(evaluation)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("evaluation", evaluation.DeliveryID().String(), err)
		}
		return err
	}

	return nil
}

// GetByDelivery retrieves the evaluation of one delivery, or an
// ObjectNotFoundError.
func (r *GormEvaluationRepository) GetByDelivery(ctx context.Context, deliveryID kernel.UUID) (*delivery.Evaluation, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dto EvaluationDTO
	if err := r.db.WithContext(ctx).First(&dto, "delivery_id = ?", deliveryID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("evaluation for delivery", deliveryID.String())
		}
		return nil, err
	}

	return evaluationToDomain(dto)
}

// GetAllByCourier retrieves every evaluation of a courier.
func (r *GormEvaluationRepository) GetAllByCourier(ctx context.Context, courierID kernel.UUID) ([]*delivery.Evaluation, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EvaluationDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "courier_id = ?", courierID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	evaluations := make([]*delivery.Evaluation, 0, len(dtos))
	for _, dto := range dtos {
		evaluation, mapErr := evaluationToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		evaluations = append(evaluations, evaluation)
	}

	return evaluations, nil
}

// isUniqueViolation matches both GORM's translated duplicate-key error and
// the raw Postgres 23505 message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}
