package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateEvaluationCommandIsNotConstructed = errors.New(
	"CreateEvaluationCommand must be created via NewCreateEvaluationCommand constructor",
)

// CreateEvaluationCommand represents a client rating a completed delivery:
// an overall 1..5 note plus three 1..5 sub-scores. One evaluation per
// delivery.
type CreateEvaluationCommand struct { //nolint:recvcheck //using for validation
	evaluationID    kernel.UUID
	deliveryID      kernel.UUID
	clientID        kernel.UUID
	note            int
	punctuality     int
	professionalism int
	packageCare     int
	comment         string

	guard guard.ConstructorGuard
}

// NewCreateEvaluationCommand creates a command for a client to rate a
// delivery. Score range checks belong to the aggregate; the command only
// requires its identifiers.
func NewCreateEvaluationCommand(
	evaluationID, deliveryID, clientID kernel.UUID,
	note, punctuality, professionalism, packageCare int,
	comment string,
) (CreateEvaluationCommand, error) {
	cmd := CreateEvaluationCommand{
		note:            note,
		punctuality:     punctuality,
		professionalism: professionalism,
		packageCare:     packageCare,
		comment:         comment,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setEvaluationID(evaluationID),
		cmd.setDeliveryID(deliveryID),
		cmd.setClientID(clientID),
	); err != nil {
		return CreateEvaluationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateEvaluationCommand) Validate() error {
	return c.guard.Validate(ErrCreateEvaluationCommandIsNotConstructed)
}

// EvaluationID returns the identifier the new evaluation will carry.
func (c CreateEvaluationCommand) EvaluationID() kernel.UUID {
	return c.evaluationID
}

// DeliveryID returns the delivery being rated.
func (c CreateEvaluationCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// ClientID returns the rating client.
func (c CreateEvaluationCommand) ClientID() kernel.UUID {
	return c.clientID
}

// Note returns the client's overall verdict.
func (c CreateEvaluationCommand) Note() int {
	return c.note
}

// Punctuality returns the punctuality score.
func (c CreateEvaluationCommand) Punctuality() int {
	return c.punctuality
}

// Professionalism returns the professionalism score.
func (c CreateEvaluationCommand) Professionalism() int {
	return c.professionalism
}

// PackageCare returns the package-care score.
func (c CreateEvaluationCommand) PackageCare() int {
	return c.packageCare
}

// Comment returns the optional free-text comment.
func (c CreateEvaluationCommand) Comment() string {
	return c.comment
}

func (c *CreateEvaluationCommand) setEvaluationID(evaluationID kernel.UUID) error {
	if err := evaluationID.Validate(); err != nil {
		return err
	}
	c.evaluationID = evaluationID
	return nil
}

func (c *CreateEvaluationCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	c.deliveryID = deliveryID
	return nil
}

func (c *CreateEvaluationCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	c.clientID = clientID
	return nil
}
