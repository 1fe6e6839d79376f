package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// AcceptDeliveryCommandHandler claims a pooled task for a courier. The claim
// is first-come-first-served: the delivery row is updated with a status guard
// on the unassigned state it was loaded in, so the second courier to commit
// gets a ConflictError and the task stays with the winner.
type AcceptDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
}

// NewAcceptDeliveryCommandHandler creates a handler for task acceptance.
func NewAcceptDeliveryCommandHandler(uowFactory DispatchUoWFactory) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle assigns the task to the courier and records their acceptance.
func (h *AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) error {
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

	courierAggregate, err := uow.CourierRepository().Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}

	if !courierAggregate.IsAvailable() || !courierAggregate.IsOnline() {
		return errs.NewForbiddenError(actor.String(), "accept delivery "+task.ID().String())
	}

	if err = task.Assign(cmd.CourierID(), now); err != nil {
		return err
	}
	if err = task.Accept(actor, now); err != nil {
		return err
	}

	// Re-stamp the estimate from the courier's last known position to the
	// drop-off: once a courier holds the task, the stored figure describes
	// their remaining trip with their vehicle's speed, not the generic
	// pickup-to-dropoff leg computed at dispatch.
	if dropoff := task.DropoffPoint(); dropoff != nil && courierAggregate.Position() != nil {
		distanceM, distErr := courierAggregate.Position().DistanceTo(*dropoff)
		if distErr != nil {
			return distErr
		}
		if err = task.SetEstimates(distanceM, courierAggregate.Vehicle().EstimateDuration(distanceM)); err != nil {
			return err
		}
	}

	if err = uow.DeliveryRepository().Update(ctx, task); err != nil {
		return err
	}

	if err = notifyDeliveryEvents(ctx, uow.NotificationRepository(), task, now); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
