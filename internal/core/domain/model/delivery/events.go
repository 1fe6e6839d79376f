package delivery

import "dispatch/internal/core/domain/model/kernel"

// AssignedEvent is recorded when the dispatcher offers the task to a courier.
type AssignedEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
	DistanceM  float64
}

// EventName identifies the event for logging and routing.
func (e AssignedEvent) EventName() string {
	return "delivery.assigned"
}

// AcceptedEvent is recorded when the assigned courier commits to the task.
type AcceptedEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e AcceptedEvent) EventName() string {
	return "delivery.accepted"
}

// RefusedEvent is recorded when the assigned courier declines and the task
// returns to the pool.
type RefusedEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e RefusedEvent) EventName() string {
	return "delivery.refused"
}

// StartedEvent is recorded when the courier picks up the package.
type StartedEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e StartedEvent) EventName() string {
	return "delivery.started"
}

// CompletedEvent is recorded when the package is handed over. Consumers run
// the order cascade and bump the courier's completed count.
type CompletedEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e CompletedEvent) EventName() string {
	return "delivery.completed"
}

// FailedEvent is recorded when the courier cannot finish after pickup.
type FailedEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  kernel.UUID
	Reason     string
}

// EventName identifies the event for logging and routing.
func (e FailedEvent) EventName() string {
	return "delivery.failed"
}

// CancelledEvent is recorded when the task is withdrawn before pickup.
// CourierID is the courier holding the task at that moment, nil when it was
// still pooled.
type CancelledEvent struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	CourierID  *kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e CancelledEvent) EventName() string {
	return "delivery.cancelled"
}
