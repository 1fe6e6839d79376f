package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrPrunePositionSamplesCommandIsNotConstructed = errors.New(
	"PrunePositionSamplesCommand must be created via NewPrunePositionSamplesCommand constructor",
)

// PrunePositionSamplesCommand deletes position history older than the cutoff.
// Couriers keep their current position; only the trail is trimmed.
type PrunePositionSamplesCommand struct { //nolint:recvcheck //using for validation
	before time.Time

	guard guard.ConstructorGuard
}

// NewPrunePositionSamplesCommand creates a command to trim position history.
func NewPrunePositionSamplesCommand(before time.Time) (PrunePositionSamplesCommand, error) {
	cmd := PrunePositionSamplesCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setBefore(before); err != nil {
		return PrunePositionSamplesCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PrunePositionSamplesCommand) Validate() error {
	return c.guard.Validate(ErrPrunePositionSamplesCommandIsNotConstructed)
}

// Before returns the deletion cutoff.
func (c PrunePositionSamplesCommand) Before() time.Time {
	return c.before
}

func (c *PrunePositionSamplesCommand) setBefore(before time.Time) error {
	if before.IsZero() {
		return errs.NewValueIsRequiredError("cutoff")
	}
	c.before = before
	return nil
}
