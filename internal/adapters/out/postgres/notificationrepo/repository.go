package notificationrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository over
// GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a notification repository on the
// given connection.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Add saves one notification.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// AddBatch saves a fan-out of notifications in a single insert.
func (r *GormNotificationRepository) AddBatch(ctx context.Context, aggregates []*notification.Notification) error {
	if len(aggregates) == 0 {
		return nil
	}

	dtos := make([]NotificationDTO, 0, len(aggregates))
	for _, aggregate := range aggregates {
		if err := aggregate.Validate(); err != nil {
			return err
		}
		dto, err := fromDomain(aggregate)
		if err != nil {
			return err
		}
		dtos = append(dtos, dto)
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Update saves an existing notification. Only read_at ever changes after
// creation.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Update("read_at", aggregate.ReadAt())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", aggregate.ID().String())
	}

	return nil
}

// Get retrieves a notification by ID, or an ObjectNotFoundError.
func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByRecipient retrieves a courier's notifications, newest first,
// capped at limit.
func (r *GormNotificationRepository) GetAllByRecipient(
	ctx context.Context,
	recipientID kernel.UUID,
	limit int,
) ([]*notification.Notification, error) {
	if err := recipientID.Validate(); err != nil {
		return nil, err
	}

	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&dtos, "courier_id = ?", recipientID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		notifications = append(notifications, aggregate)
	}

	return notifications, nil
}

// CountUnread returns how many of the courier's notifications are unread.
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID kernel.UUID) (int64, error) {
	if err := recipientID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&NotificationDTO{}).
		Where("courier_id = ? AND read_at IS NULL", recipientID.Bytes()).
		Count(&count).Error
	return count, err
}
