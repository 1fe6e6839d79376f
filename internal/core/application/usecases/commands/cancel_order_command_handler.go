package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels an order and withdraws its delivery task.
// If a courier already held the task, they are told it is gone.
type CancelOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory DispatchUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{uowFactory: uowFactory}
}

// Handle cancels the order on behalf of the actor and cascades to the
// delivery task when one exists.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = orderAggregate.Transition(order.StatusCancelled, cmd.Actor(), now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}

	// The withdrawal cascade hangs off the recorded cancellation event, not
	// off the handler's own knowledge of what Transition did.
	for _, event := range orderAggregate.Events() {
		if _, ok := event.(order.CancelledEvent); ok {
			if err = h.withdrawDeliveryTask(ctx, uow, cmd.OrderID(), now); err != nil {
				return err
			}
		}
	}
	orderAggregate.ClearEvents()

	return uow.Commit(ctx)
}

// withdrawDeliveryTask cancels the order's delivery task if one exists and is
// still live. A courier holding it is notified through the task's recorded
// cancellation event.
func (h *CancelOrderCommandHandler) withdrawDeliveryTask(
	ctx context.Context,
	uow DispatchUoW,
	orderID kernel.UUID,
	now time.Time,
) error {
	task, err := uow.DeliveryRepository().GetByOrder(ctx, orderID)
	if err != nil {
		// Orders cancelled before validation never had a delivery.
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		return err
	}

	if task.Status().IsTerminal() {
		return nil
	}

	if err = task.Cancel(kernel.SystemActor(), now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, task); err != nil {
		return err
	}

	return notifyDeliveryEvents(ctx, uow.NotificationRepository(), task, now)
}
