package notification

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrNotificationIsNotConstructed is returned when a Notification instance
// was not created through the NewNotification factory method.
var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Type classifies what happened. Courier apps render notifications off the
// type and payload; title and body are convenience text.
type Type int

const (
	// TypeUnknown is the invalid zero value.
	TypeUnknown Type = iota
	// TypeNewDeliveryAvailable tells a nearby courier a task is up for grabs.
	TypeNewDeliveryAvailable
	// TypeDeliveryAccepted confirms the courier's acceptance.
	TypeDeliveryAccepted
	// TypeDeliveryInProgress confirms the pickup.
	TypeDeliveryInProgress
	// TypeDeliveryCompleted confirms the hand-over.
	TypeDeliveryCompleted
	// TypeDeliveryCancelled tells the assigned courier the task was withdrawn.
	TypeDeliveryCancelled
	// TypeSystem is a free-form service announcement.
	TypeSystem
)

func typeStrings() map[Type]string {
	return map[Type]string{
		TypeNewDeliveryAvailable: "new_delivery_available",
		TypeDeliveryAccepted:     "delivery_accepted",
		TypeDeliveryInProgress:   "delivery_in_progress",
		TypeDeliveryCompleted:    "delivery_completed",
		TypeDeliveryCancelled:    "delivery_cancelled",
		TypeSystem:               "system",
	}
}

// String returns the snake_case type name.
func (t Type) String() string {
	if str, ok := typeStrings()[t]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects TypeUnknown and out-of-band values.
func (t Type) Validate() error {
	if _, ok := typeStrings()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("notification type",
			fmt.Errorf("%d is not a valid notification type", t))
	}
	return nil
}

// ParseType converts a snake_case type name to its value.
func ParseType(s string) (Type, error) {
	for typ, name := range typeStrings() {
		if name == s {
			return typ, nil
		}
	}
	return TypeUnknown, errs.NewValueIsInvalidErrorWithCause("notification type",
		fmt.Errorf("%q is not a valid notification type", s))
}

// Payload carries the structured references the courier app needs to act on
// the notification. All fields are optional; it is stored as JSON.
type Payload struct {
	OrderID    *kernel.UUID `json:"order_id,omitempty"`
	DeliveryID *kernel.UUID `json:"delivery_id,omitempty"`
	DistanceM  *float64     `json:"distance_m,omitempty"`
}

// Notification is one durable in-app message for one courier. Delivery
// offers are fanned out as one notification per ranked courier; nothing is
// pushed, the app polls its list and unread count.
type Notification struct {
	id        kernel.UUID
	courierID kernel.UUID

	notifType Type
	title     string
	body      string
	payload   Payload

	readAt    *time.Time
	createdAt time.Time

	isConstructed bool
}

// NewNotification creates an unread notification for one courier.
func NewNotification(
	id kernel.UUID,
	courierID kernel.UUID,
	notifType Type,
	title, body string,
	payload Payload,
	now time.Time,
) (*Notification, error) {
	n := &Notification{
		body:          body,
		payload:       payload,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		n.setID(id),
		n.setCourierID(courierID),
		n.setType(notifType),
		n.setTitle(title),
	); err != nil {
		return nil, err
	}

	return n, nil
}

// RestoreNotification reconstructs a notification from persistence.
func RestoreNotification(
	id kernel.UUID,
	courierID kernel.UUID,
	notifType Type,
	title, body string,
	payload Payload,
	readAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, courierID, notifType, title, body, payload, createdAt)
	if err != nil {
		return nil, err
	}
	n.readAt = readAt
	return n, nil
}

// Validate ensures the Notification was created via NewNotification.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID {
	return n.id
}

// CourierID returns who the notification is for.
func (n *Notification) CourierID() kernel.UUID {
	return n.courierID
}

// Type returns the notification type.
func (n *Notification) Type() Type {
	return n.notifType
}

// Title returns the short display title.
func (n *Notification) Title() string {
	return n.title
}

// Body returns the display body.
func (n *Notification) Body() string {
	return n.body
}

// Payload returns the structured references.
func (n *Notification) Payload() Payload {
	return n.payload
}

// IsRead reports whether the courier has marked the notification read.
func (n *Notification) IsRead() bool {
	return n.readAt != nil
}

// ReadAt returns when the notification was marked read, or nil.
func (n *Notification) ReadAt() *time.Time {
	return n.readAt
}

// CreatedAt returns the creation timestamp.
func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

// MarkRead marks the notification read on behalf of actor. Only the owning
// courier may do so; a second call is a no-op keeping the original read time.
func (n *Notification) MarkRead(actor kernel.Actor, now time.Time) error {
	if actor.Role() != kernel.RoleCourier || !actor.ID().IsEqual(n.courierID) {
		return errs.NewForbiddenError(actor.String(), "read notification "+n.id.String())
	}
	if n.readAt != nil {
		return nil
	}
	n.readAt = &now
	return nil
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	n.courierID = courierID
	return nil
}

func (n *Notification) setType(notifType Type) error {
	if err := notifType.Validate(); err != nil {
		return err
	}
	n.notifType = notifType
	return nil
}

func (n *Notification) setTitle(title string) error {
	if title == "" {
		return errs.NewValueIsRequiredError("notification title")
	}
	n.title = title
	return nil
}
