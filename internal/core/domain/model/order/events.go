package order

import "dispatch/internal/core/domain/model/kernel"

// ValidatedEvent is recorded when the merchant accepts an order. Consumers
// react by creating the delivery task and notifying nearby couriers.
type ValidatedEvent struct {
	OrderID    kernel.UUID
	MerchantID kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e ValidatedEvent) EventName() string {
	return "order.validated"
}

// CancelledEvent is recorded when an order is cancelled, carrying who did it.
type CancelledEvent struct {
	OrderID kernel.UUID
	Actor   kernel.Actor
}

// EventName identifies the event for logging and routing.
func (e CancelledEvent) EventName() string {
	return "order.cancelled"
}

// DeliveredEvent is recorded when the linked delivery completes and the order
// reaches its terminal delivered state.
type DeliveredEvent struct {
	OrderID  kernel.UUID
	ClientID kernel.UUID
}

// EventName identifies the event for logging and routing.
func (e DeliveredEvent) EventName() string {
	return "order.delivered"
}
