package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRefuseDeliveryCommandIsNotConstructed = errors.New(
	"RefuseDeliveryCommand must be created via NewRefuseDeliveryCommand constructor",
)

// RefuseDeliveryCommand represents a courier backing out of a claimed task
// before pickup. The task goes back into the pool for other couriers.
type RefuseDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	courierID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewRefuseDeliveryCommand creates a command for a courier to release a task.
func NewRefuseDeliveryCommand(deliveryID, courierID kernel.UUID) (RefuseDeliveryCommand, error) {
	cmd := RefuseDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return RefuseDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RefuseDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRefuseDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the task being released.
func (c RefuseDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// CourierID returns the acting courier.
func (c RefuseDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *RefuseDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *RefuseDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
