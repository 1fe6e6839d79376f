package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetCourierAvailabilityCommandIsNotConstructed = errors.New(
	"SetCourierAvailabilityCommand must be created via NewSetCourierAvailabilityCommand constructor",
)

// SetCourierAvailabilityCommand flips a courier's opt-in and session flags.
// Available means open to new offers; online means the app has a live
// session. Both must hold for the courier to be dispatchable.
type SetCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID   kernel.UUID
	isAvailable bool
	isOnline    bool

	guard guard.ConstructorGuard
}

// NewSetCourierAvailabilityCommand creates a command to flip availability.
func NewSetCourierAvailabilityCommand(
	courierID kernel.UUID,
	isAvailable, isOnline bool,
) (SetCourierAvailabilityCommand, error) {
	cmd := SetCourierAvailabilityCommand{
		isAvailable: isAvailable,
		isOnline:    isOnline,
		guard:       guard.NewConstructorGuard(),
	}

	if err := cmd.setCourierID(courierID); err != nil {
		return SetCourierAvailabilityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierAvailabilityCommandIsNotConstructed)
}

// CourierID returns the courier changing state.
func (c SetCourierAvailabilityCommand) CourierID() kernel.UUID {
	return c.courierID
}

// IsAvailable returns the requested offer opt-in flag.
func (c SetCourierAvailabilityCommand) IsAvailable() bool {
	return c.isAvailable
}

// IsOnline returns the requested session flag.
func (c SetCourierAvailabilityCommand) IsOnline() bool {
	return c.isOnline
}

func (c *SetCourierAvailabilityCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
