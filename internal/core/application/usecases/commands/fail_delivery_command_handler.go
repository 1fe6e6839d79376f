package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// FailDeliveryCommandHandler records a failed delivery attempt. The linked
// order deliberately stays in in_delivery: what happens to a failed order
// (redelivery, refund) is an operations decision, not an automatic cascade.
type FailDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewFailDeliveryCommandHandler creates a handler for failure reports.
func NewFailDeliveryCommandHandler(uowFactory DispatchUoWFactory) FailDeliveryCommandHandler {
	return FailDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle marks the delivery failed on behalf of the courier.
func (h *FailDeliveryCommandHandler) Handle(ctx context.Context, cmd FailDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor, err := kernel.NewActor(kernel.RoleCourier, cmd.CourierID())
	if err != nil {
		return err
	}

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

	now := time.Now().UTC()

	if err = task.Fail(actor, cmd.Reason(), now); err != nil {
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
