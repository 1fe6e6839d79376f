package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ChangeOrderStatusCommandHandler applies a merchant-driven status change.
// The aggregate enforces both the transition table and the merchant's
// authority over the order.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewChangeOrderStatusCommandHandler creates a handler for merchant status
// changes.
func NewChangeOrderStatusCommandHandler(uowFactory OrderUoWFactory) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{uowFactory: uowFactory}
}

// Handle moves the order to the requested status on behalf of the merchant.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor, err := kernel.NewActor(kernel.RoleMerchant, cmd.MerchantID())
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

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = orderAggregate.Transition(cmd.Target(), actor, time.Now().UTC()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}
	orderAggregate.ClearEvents()

	return uow.Commit(ctx)
}
