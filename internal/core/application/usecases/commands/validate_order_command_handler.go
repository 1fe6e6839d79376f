package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/shopspring/decimal"
)

// ValidateOrderCommandHandler runs the dispatch cascade in one transaction:
// the order moves to validated, a delivery task enters the pool, and every
// ranked nearby courier gets an offer notification.
//
// A merchant directory failure degrades the cascade instead of failing it:
// the delivery is created without a pickup point and no offers fan out. The
// task stays in the pool and is visible through the available-deliveries
// listing.
type ValidateOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	directory  ports.MerchantDirectory
	dispatcher services.DeliveryDispatcher
	fee        decimal.Decimal
	logger     *slog.Logger
}

// NewValidateOrderCommandHandler creates a handler for order validation and
// dispatch. The fee is the flat amount stamped on every new delivery.
func NewValidateOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	directory ports.MerchantDirectory,
	dispatcher services.DeliveryDispatcher,
	fee decimal.Decimal,
	logger *slog.Logger,
) ValidateOrderCommandHandler {
	return ValidateOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		dispatcher: dispatcher,
		fee:        fee,
		logger:     logger,
	}
}

// Handle validates the order on behalf of the merchant and dispatches the
// resulting delivery task.
func (h *ValidateOrderCommandHandler) Handle(ctx context.Context, cmd ValidateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor, err := kernel.NewActor(kernel.RoleMerchant, cmd.MerchantID())
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

	orderAggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = orderAggregate.Transition(order.StatusValidated, actor, now); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, orderAggregate); err != nil {
		return err
	}

	// The dispatch cascade hangs off the recorded validation event, not off
	// the handler's own knowledge of what Transition did.
	for _, event := range orderAggregate.Events() {
		if _, ok := event.(order.ValidatedEvent); ok {
			if err = h.dispatchDeliveryTask(ctx, uow, orderAggregate, now); err != nil {
				return err
			}
		}
	}
	orderAggregate.ClearEvents()

	return uow.Commit(ctx)
}

// dispatchDeliveryTask puts a fresh delivery task in the pool for a validated
// order and fans offers out to the ranked nearby couriers.
func (h *ValidateOrderCommandHandler) dispatchDeliveryTask(
	ctx context.Context,
	uow DispatchUoW,
	orderAggregate *order.Order,
	now time.Time,
) error {
	task, err := h.createDeliveryTask(ctx, orderAggregate, now)
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Add(ctx, task); err != nil {
		return err
	}

	if err = h.offerToNearbyCouriers(ctx, uow, task, now); err != nil {
		return err
	}
	task.ClearEvents()

	return nil
}

// createDeliveryTask builds the unassigned delivery for a validated order.
// The pickup side comes from the merchant directory; if the lookup fails the
// task is created without coordinates.
func (h *ValidateOrderCommandHandler) createDeliveryTask(
	ctx context.Context,
	orderAggregate *order.Order,
	now time.Time,
) (*delivery.Delivery, error) {
	pickupAddress := "merchant premises"
	var pickupPoint *kernel.GeoPoint

	info, err := h.directory.Lookup(ctx, orderAggregate.MerchantID())
	if err != nil {
		h.logger.Warn("merchant lookup failed, creating delivery without pickup point",
			"order_id", orderAggregate.ID().String(),
			"merchant_id", orderAggregate.MerchantID().String(),
			"error", err)
	} else {
		if info.Address != "" {
			pickupAddress = info.Address
		}
		pickupPoint = info.Point
	}

	task, err := delivery.NewDelivery(
		kernel.NewUUID(), orderAggregate.ID(),
		pickupAddress, pickupPoint,
		orderAggregate.DeliveryAddress(), orderAggregate.DeliveryPoint(),
		orderAggregate.Instructions(), h.fee, now,
	)
	if err != nil {
		return nil, err
	}

	if pickupPoint != nil && orderAggregate.DeliveryPoint() != nil {
		distanceM, err := pickupPoint.DistanceTo(*orderAggregate.DeliveryPoint())
		if err != nil {
			return nil, err
		}
		if err = task.SetEstimates(distanceM, courier.VehicleMotorbike.EstimateDuration(distanceM)); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// offerToNearbyCouriers ranks the available pool against the task and writes
// one offer notification per candidate.
func (h *ValidateOrderCommandHandler) offerToNearbyCouriers(
	ctx context.Context,
	uow DispatchUoW,
	task *delivery.Delivery,
	now time.Time,
) error {
	// No vehicle restriction on dispatch: every vehicle type may carry a
	// marketplace order.
	couriers, err := uow.CourierRepository().GetAllAvailable(ctx, nil)
	if err != nil {
		return err
	}

	candidates, err := h.dispatcher.RankCandidates(task, couriers, now)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		h.logger.Info("no dispatchable couriers for delivery",
			"delivery_id", task.ID().String(),
			"order_id", task.OrderID().String(),
			"pool_size", len(couriers))
		return nil
	}

	notifications := make([]*notification.Notification, 0, len(candidates))
	for _, candidate := range candidates {
		offer, err := newDeliveryOffer(task, candidate, now)
		if err != nil {
			return err
		}
		notifications = append(notifications, offer)
	}

	return uow.NotificationRepository().AddBatch(ctx, notifications)
}

// newDeliveryOffer builds the offer notification for one ranked candidate.
func newDeliveryOffer(
	task *delivery.Delivery,
	candidate services.Candidate,
	now time.Time,
) (*notification.Notification, error) {
	orderID := task.OrderID()
	deliveryID := task.ID()
	distanceM := candidate.DistanceM

	body := fmt.Sprintf("Pickup at %s, %.1f km from you. Drop-off at %s.",
		task.PickupAddress(), distanceM/1000, task.DropoffAddress())

	return notification.NewNotification(
		kernel.NewUUID(), candidate.Courier.ID(),
		notification.TypeNewDeliveryAvailable,
		"New delivery available", body,
		notification.Payload{
			OrderID:    &orderID,
			DeliveryID: &deliveryID,
			DistanceM:  &distanceM,
		},
		now,
	)
}
