package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrFailDeliveryCommandIsNotConstructed = errors.New(
	"FailDeliveryCommand must be created via NewFailDeliveryCommand constructor",
)

// FailDeliveryCommand represents a courier abandoning an in-progress delivery
// with a reason (recipient unreachable, vehicle breakdown, ...).
type FailDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewFailDeliveryCommand creates a command for a courier to report a failed
// delivery.
func NewFailDeliveryCommand(deliveryID, courierID kernel.UUID, reason string) (FailDeliveryCommand, error) {
	cmd := FailDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
		cmd.setReason(reason),
	); err != nil {
		return FailDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c FailDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the failing task.
func (c FailDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// CourierID returns the acting courier.
func (c FailDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Reason returns why the delivery could not be completed.
func (c FailDeliveryCommand) Reason() string {
	return c.reason
}

func (c *FailDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *FailDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *FailDeliveryCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("failure reason")
	}
	c.reason = reason
	return nil
}
