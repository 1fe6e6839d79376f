package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

// NotificationRepository defines the persistence contract for durable in-app
// notifications. The unread count is served from an index, never by loading
// rows.
type NotificationRepository interface {
	// Add persists one notification.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// AddBatch persists a fan-out of notifications in one write.
	AddBatch(ctx context.Context, aggregates []*notification.Notification) error

	// Update persists changes to an existing notification.
	Update(ctx context.Context, aggregate *notification.Notification) error

	// Get retrieves a notification by its unique identifier, or an
	// ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// GetAllByRecipient retrieves a recipient's notifications newest first,
	// capped at limit.
	GetAllByRecipient(ctx context.Context, recipientID kernel.UUID, limit int) ([]*notification.Notification, error)

	// CountUnread returns the recipient's unread notification count.
	CountUnread(ctx context.Context, recipientID kernel.UUID) (int64, error)
}
