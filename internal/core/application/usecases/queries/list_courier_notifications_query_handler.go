package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListCourierNotificationsQueryHandler reads a courier's feed newest first
// and their unread count. The count rides on the partial index over unread
// rows; it never loads notification bodies.
type ListCourierNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewListCourierNotificationsQueryHandler creates a handler for feed reads.
func NewListCourierNotificationsQueryHandler(db *gorm.DB) ListCourierNotificationsQueryHandler {
	return ListCourierNotificationsQueryHandler{db: db}
}

// Handle lists the newest notifications up to the limit plus the unread count.
func (h ListCourierNotificationsQueryHandler) Handle(
	ctx context.Context,
	query ListCourierNotificationsQuery,
) (ListCourierNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListCourierNotificationsQueryResponse{}, err
	}

	resp := ListCourierNotificationsQueryResponse{
		Notifications: make([]NotificationResponse, 0, query.Limit()),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			type,
			title,
			body,
			payload,
			read_at,
			created_at
		FROM notifications
		WHERE courier_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, query.CourierID().Bytes(), query.Limit()).Rows()
	if err != nil {
		return ListCourierNotificationsQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item NotificationResponse
		var id uuid.UUID
		var readAt *time.Time
		var createdAt time.Time

		err = rows.Scan(&id, &item.Type, &item.Title, &item.Body, &item.Payload, &readAt, &createdAt)
		if err != nil {
			return ListCourierNotificationsQueryResponse{}, err
		}

		item.ID = id.String()
		item.ReadAt = formatTimePtr(readAt)
		item.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		resp.Notifications = append(resp.Notifications, item)
	}
	if err = rows.Err(); err != nil {
		return ListCourierNotificationsQueryResponse{}, err
	}

	err = h.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM notifications
		WHERE courier_id = ? AND read_at IS NULL
	`, query.CourierID().Bytes()).Scan(&resp.UnreadCount).Error
	if err != nil {
		return ListCourierNotificationsQueryResponse{}, err
	}

	return resp, nil
}
