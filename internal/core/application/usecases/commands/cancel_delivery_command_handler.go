package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// CancelDeliveryCommandHandler withdraws a delivery task as the system. A
// courier holding the task at that moment is notified through the recorded
// cancellation event.
type CancelDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewCancelDeliveryCommandHandler creates a handler for task withdrawal.
func NewCancelDeliveryCommandHandler(uowFactory DispatchUoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle cancels the delivery task.
func (h *CancelDeliveryCommandHandler) Handle(ctx context.Context, cmd CancelDeliveryCommand) error {
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

	task, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = task.Cancel(kernel.SystemActor(), now); err != nil {
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
