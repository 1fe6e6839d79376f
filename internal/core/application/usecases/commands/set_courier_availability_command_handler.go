package commands

import (
	"context"
	"time"
)

// SetCourierAvailabilityCommandHandler flips a courier's availability flags.
// Deliveries already held by the courier are unaffected.
type SetCourierAvailabilityCommandHandler struct {
	uowFactory CourierUoWFactory
}

// NewSetCourierAvailabilityCommandHandler creates a handler for availability
// changes.
func NewSetCourierAvailabilityCommandHandler(uowFactory CourierUoWFactory) SetCourierAvailabilityCommandHandler {
	return SetCourierAvailabilityCommandHandler{uowFactory: uowFactory}
}

// Handle applies the requested flags.
func (h *SetCourierAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetCourierAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	courierAggregate, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	courierAggregate.SetAvailability(cmd.IsAvailable(), cmd.IsOnline(), time.Now().UTC())

	if err = uow.CourierRepository().Update(ctx, courierAggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
