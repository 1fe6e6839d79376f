package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
)

// notifyDeliveryEvents is the registered consumer for delivery transition
// events. It reads the events the aggregate recorded, writes one courier
// notification per courier-facing event in the same transaction as the
// transition, and clears the list. Refusals and failures are consumed without
// producing a notification: the courier who caused them needs no push about
// their own action.
func notifyDeliveryEvents(
	ctx context.Context,
	repo ports.NotificationRepository,
	task *delivery.Delivery,
	now time.Time,
) error {
	for _, event := range task.Events() {
		built, err := notificationFromEvent(task, event, now)
		if err != nil {
			return err
		}
		if built == nil {
			continue
		}
		if err = repo.Add(ctx, built); err != nil {
			return err
		}
	}
	task.ClearEvents()
	return nil
}

// notificationFromEvent maps one recorded event to the notification it
// produces, or nil when the event has no courier audience.
func notificationFromEvent(
	task *delivery.Delivery,
	event kernel.DomainEvent,
	now time.Time,
) (*notification.Notification, error) {
	orderID := task.OrderID()
	taskID := task.ID()
	payload := notification.Payload{OrderID: &orderID, DeliveryID: &taskID}

	switch e := event.(type) {
	case delivery.AcceptedEvent:
		return notification.NewNotification(
			kernel.NewUUID(), e.CourierID,
			notification.TypeDeliveryAccepted,
			"Delivery accepted",
			"You claimed the delivery. Head to "+task.PickupAddress()+".",
			payload, now,
		)
	case delivery.StartedEvent:
		return notification.NewNotification(
			kernel.NewUUID(), e.CourierID,
			notification.TypeDeliveryInProgress,
			"Delivery in progress",
			"Pickup recorded. Deliver to "+task.DropoffAddress()+".",
			payload, now,
		)
	case delivery.CompletedEvent:
		return notification.NewNotification(
			kernel.NewUUID(), e.CourierID,
			notification.TypeDeliveryCompleted,
			"Delivery completed",
			"Hand-over recorded. The order is marked delivered.",
			payload, now,
		)
	case delivery.CancelledEvent:
		if e.CourierID == nil {
			return nil, nil
		}
		return notification.NewNotification(
			kernel.NewUUID(), *e.CourierID,
			notification.TypeDeliveryCancelled,
			"Delivery cancelled",
			"The delivery was withdrawn. No further action is needed.",
			payload, now,
		)
	default:
		return nil, nil
	}
}
