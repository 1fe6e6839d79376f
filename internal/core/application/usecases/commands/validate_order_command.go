package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrValidateOrderCommandIsNotConstructed = errors.New(
	"ValidateOrderCommand must be created via NewValidateOrderCommand constructor",
)

// ValidateOrderCommand represents a merchant accepting an order. Validation
// is the trigger of the whole dispatch cascade.
type ValidateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	merchantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewValidateOrderCommand creates a command for a merchant to accept an order.
func NewValidateOrderCommand(orderID, merchantID kernel.UUID) (ValidateOrderCommand, error) {
	cmd := ValidateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setMerchantID(merchantID),
	); err != nil {
		return ValidateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ValidateOrderCommand) Validate() error {
	return c.guard.Validate(ErrValidateOrderCommandIsNotConstructed)
}

// OrderID returns the order to validate.
func (c ValidateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// MerchantID returns the acting merchant.
func (c ValidateOrderCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

func (c *ValidateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *ValidateOrderCommand) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	c.merchantID = merchantID
	return nil
}
