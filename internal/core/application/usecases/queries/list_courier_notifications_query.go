package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

// DefaultNotificationLimit caps a notification listing when the caller does
// not ask for a specific page size.
const DefaultNotificationLimit = 50

var ErrListCourierNotificationsQueryIsNotConstructed = errors.New(
	"ListCourierNotificationsQuery must be created via NewListCourierNotificationsQuery constructor",
)

// ListCourierNotificationsQuery retrieves a courier's notification feed with
// their unread count.
type ListCourierNotificationsQuery struct {
	courierID kernel.UUID
	limit     int

	guard guard.ConstructorGuard
}

// NewListCourierNotificationsQuery creates a feed query. A non-positive limit
// falls back to DefaultNotificationLimit.
func NewListCourierNotificationsQuery(courierID kernel.UUID, limit int) (ListCourierNotificationsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return ListCourierNotificationsQuery{}, err
	}
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return ListCourierNotificationsQuery{
		courierID: courierID,
		limit:     limit,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListCourierNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListCourierNotificationsQueryIsNotConstructed)
}

// CourierID returns whose feed is requested.
func (q ListCourierNotificationsQuery) CourierID() kernel.UUID {
	return q.courierID
}

// Limit returns the page size.
func (q ListCourierNotificationsQuery) Limit() int {
	return q.limit
}

// NotificationResponse is one notification in the feed.
type NotificationResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	Payload   []byte  `json:"payload,omitempty"`
	ReadAt    *string `json:"read_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// ListCourierNotificationsQueryResponse is the feed read model. UnreadCount
// covers the whole feed, not just the returned page.
type ListCourierNotificationsQueryResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
