package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// CompleteDeliveryCommandHandler closes the loop on a delivery: the task is
// completed, the order is marked delivered, and the courier's completed
// counter moves.
type CompleteDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewCompleteDeliveryCommandHandler creates a handler for hand-over
// confirmation.
func NewCompleteDeliveryCommandHandler(uowFactory DispatchUoWFactory) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle completes the delivery on behalf of the courier and cascades to the
// order and courier aggregates.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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

	if err = task.Complete(actor, cmd.ProofRef(), cmd.SignatureRef(), now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, task); err != nil {
		return err
	}

	orderAggregate, err := uow.OrderRepository().Get(ctx, task.OrderID())
	if err != nil {
		return err
	}

	if err = orderAggregate.Transition(order.StatusDelivered, kernel.SystemActor(), now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}
	orderAggregate.ClearEvents()

	courierAggregate, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	courierAggregate.RecordCompletedDelivery(now)

	if err = uow.CourierRepository().Update(ctx, courierAggregate); err != nil {
		return err
	}

	if err = notifyDeliveryEvents(ctx, uow.NotificationRepository(), task, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
