package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// StartDeliveryCommandHandler records the pickup and moves the linked order
// into in_delivery. The order-side transition runs as the system actor: the
// courier's authority is checked by the delivery aggregate, and the order
// follows its delivery.
type StartDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewStartDeliveryCommandHandler creates a handler for pickup confirmation.
func NewStartDeliveryCommandHandler(uowFactory DispatchUoWFactory) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle confirms the pickup on behalf of the courier.
func (h *StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor, err := kernel.NewActor(kernel.RoleCourier, cmd.CourierID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	task, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = task.Start(actor, now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, task); err != nil {
		return err
	}

	orderAggregate, err := uow.OrderRepository().Get(ctx, task.OrderID())
	if err != nil {
		return err
	}

	if err = orderAggregate.Transition(order.StatusInDelivery, kernel.SystemActor(), now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}
	orderAggregate.ClearEvents()

	if err = notifyDeliveryEvents(ctx, uow.NotificationRepository(), task, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
