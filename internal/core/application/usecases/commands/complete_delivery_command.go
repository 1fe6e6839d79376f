package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand represents a courier confirming the hand-over.
// Proof and signature references point at uploaded media; both are optional
// because cash hand-overs in open-air markets rarely produce either.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID   kernel.UUID
	courierID    kernel.UUID
	proofRef     string
	signatureRef string

	guard guard.ConstructorGuard
}

// NewCompleteDeliveryCommand creates a command for a courier to confirm the
// hand-over.
func NewCompleteDeliveryCommand(
	deliveryID, courierID kernel.UUID,
	proofRef, signatureRef string,
) (CompleteDeliveryCommand, error) {
	cmd := CompleteDeliveryCommand{
		proofRef:     proofRef,
		signatureRef: signatureRef,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setCourierID(courierID),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the task being completed.
func (c CompleteDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// CourierID returns the acting courier.
func (c CompleteDeliveryCommand) CourierID() kernel.UUID {
	return c.courierID
}

// ProofRef returns the optional delivery-proof media reference.
func (c CompleteDeliveryCommand) ProofRef() string {
	return c.proofRef
}

// SignatureRef returns the optional recipient-signature media reference.
func (c CompleteDeliveryCommand) SignatureRef() string {
	return c.signatureRef
}

func (c *CompleteDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *CompleteDeliveryCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}
