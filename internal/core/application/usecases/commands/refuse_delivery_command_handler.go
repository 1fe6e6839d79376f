package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// RefuseDeliveryCommandHandler releases a claimed task back into the pool.
// If the order was cancelled while the courier held the task, the refusal
// lands the task in cancelled instead of re-pooling a dead delivery.
type RefuseDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewRefuseDeliveryCommandHandler creates a handler for task refusal.
func NewRefuseDeliveryCommandHandler(uowFactory DispatchUoWFactory) RefuseDeliveryCommandHandler {
	return RefuseDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle releases the task on behalf of the courier.
func (h *RefuseDeliveryCommandHandler) Handle(ctx context.Context, cmd RefuseDeliveryCommand) error {
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

	orderAggregate, err := uow.OrderRepository().Get(ctx, task.OrderID())
	if err != nil {
		return err
	}

	if orderAggregate.Status() == order.StatusCancelled {
		if err = task.Refuse(actor, now); err != nil {
			return err
		}
		if err = task.Cancel(kernel.SystemActor(), now); err != nil {
			return err
		}
	} else if err = task.Refuse(actor, now); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, task); err != nil {
		return err
	}

	if err = notifyDeliveryEvents(ctx, uow.NotificationRepository(), task, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
