// Package notificationrepo persists courier notifications.
package notificationrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

// NotificationDTO is the database row for one in-app notification. The
// payload is stored as JSON; the unread count is served off the partial
// index over unread rows.
type NotificationDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID uuid.UUID `gorm:"type:uuid;index;index:idx_notifications_unread,where:read_at IS NULL"`
	Type      string    `gorm:"size:32"`
	Title     string
	Body      string
	Payload   []byte `gorm:"type:jsonb"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"index"`
}

// TableName maps the DTO onto the "notifications" table.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(aggregate *notification.Notification) (NotificationDTO, error) {
	payload, err := json.Marshal(aggregate.Payload())
	if err != nil {
		return NotificationDTO{}, err
	}

	return NotificationDTO{
		ID:        aggregate.ID().Bytes(),
		CourierID: aggregate.CourierID().Bytes(),
		Type:      aggregate.Type().String(),
		Title:     aggregate.Title(),
		Body:      aggregate.Body(),
		Payload:   payload,
		ReadAt:    aggregate.ReadAt(),
		CreatedAt: aggregate.CreatedAt(),
	}, nil
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	notifType, err := notification.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}

	var payload notification.Payload
	if len(dto.Payload) > 0 {
		if err := json.Unmarshal(dto.Payload, &payload); err != nil {
			return nil, err
		}
	}

	return notification.RestoreNotification(
		id, courierID, notifType,
		dto.Title, dto.Body, payload,
		dto.ReadAt, dto.CreatedAt,
	)
}
