package courierrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCourierRepository implements ports.CourierRepository over GORM.
type GormCourierRepository struct {
	db *gorm.DB
}

// NewGormCourierRepository creates a courier repository on the given
// connection.
func NewGormCourierRepository(db *gorm.DB) *GormCourierRepository {
	return &GormCourierRepository{db: db}
}

// Add saves a new courier.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update saves an existing courier. Select forces boolean and nullable
// columns through even when they hold zero values.
func (r *GormCourierRepository) Update(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", dto.ID).
		Select(
			"Name", "Phone", "Vehicle", "IsAvailable", "IsOnline",
			"Lat", "Lon", "PositionAt", "Rating", "CompletedCount", "UpdatedAt",
		).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a courier by ID, or an ObjectNotFoundError.
func (r *GormCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CourierDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllAvailable retrieves couriers opted in to offers with a live session,
// optionally restricted to one vehicle type. Position freshness is the
// dispatcher's concern, not a SQL filter.
func (r *GormCourierRepository) GetAllAvailable(ctx context.Context, vehicle *courier.VehicleType) ([]*courier.Courier, error) {
	query := r.db.WithContext(ctx).
		Where("is_available = ? AND is_online = ?", true, true)
	if vehicle != nil {
		if err := vehicle.Validate(); err != nil {
			return nil, err
		}
		query = query.Where("vehicle = ?", vehicle.String())
	}

	var dtos []CourierDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	couriers := make([]*courier.Courier, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		couriers = append(couriers, aggregate)
	}

	return couriers, nil
}

// AddPositionSample appends one accepted GPS report to the trail.
func (r *GormCourierRepository) AddPositionSample(ctx context.Context, sample *courier.PositionSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	dto := sampleFromDomain(sample)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GetPositionHistory retrieves a courier's samples in the window, newest
// first.
func (r *GormCourierRepository) GetPositionHistory(
	ctx context.Context,
	courierID kernel.UUID,
	since time.Time,
) ([]*courier.PositionSample, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PositionSampleDTO
	err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Find(&dtos, "courier_id = ? AND recorded_at >= ?", courierID.Bytes(), since).Error
	if err != nil {
		return nil, err
	}

	samples := make([]*courier.PositionSample, 0, len(dtos))
	for _, dto := range dtos {
		sample, mapErr := sampleToDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

// PrunePositionSamples deletes samples recorded before the cutoff.
func (r *GormCourierRepository) PrunePositionSamples(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recorded_at < ?", before).
		Delete(&PositionSampleDTO{})
	return result.RowsAffected, result.Error
}
