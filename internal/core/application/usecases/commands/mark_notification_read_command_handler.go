package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// MarkNotificationReadCommandHandler marks one notification read. Repeating
// the command is harmless; the first read time sticks.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

// NewMarkNotificationReadCommandHandler creates a handler for read receipts.
func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{uowFactory: uowFactory}
}

// Handle marks the notification read on behalf of the courier.
func (h *MarkNotificationReadCommandHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
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

	aggregate, err := uow.NotificationRepository().Get(ctx, cmd.NotificationID())
	if err != nil {
		return err
	}

	if err = aggregate.MarkRead(actor, time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.NotificationRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
