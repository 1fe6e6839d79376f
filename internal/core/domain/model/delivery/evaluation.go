package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrEvaluationIsNotConstructed is returned when an Evaluation instance was
// not created through the NewEvaluation factory method.
var ErrEvaluationIsNotConstructed = errors.New("Evaluation must be created via NewEvaluation constructor")

const (
	minScore = 1
	maxScore = 5
)

// Evaluation is the client's rating of one completed delivery: an overall
// note plus three sub-scores, each on a 1..5 scale. The note is the client's
// own verdict, not derived from the sub-scores, and it alone feeds the
// courier's rolling average. A delivery is evaluated at most once, which the
// persistence layer enforces with a uniqueness guard on the delivery ID.
type Evaluation struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	courierID  kernel.UUID
	clientID   kernel.UUID

	note            int
	punctuality     int
	professionalism int
	packageCare     int
	comment         string

	createdAt time.Time

	isConstructed bool
}

// NewEvaluation creates an evaluation with a validated note and sub-scores.
func NewEvaluation(
	id kernel.UUID,
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	clientID kernel.UUID,
	note, punctuality, professionalism, packageCare int,
	comment string,
	now time.Time,
) (*Evaluation, error) {
	e := &Evaluation{
		comment:       comment,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setDeliveryID(deliveryID),
		e.setCourierID(courierID),
		e.setClientID(clientID),
		e.setScore(&e.note, "note", note),
		e.setScore(&e.punctuality, "punctuality", punctuality),
		e.setScore(&e.professionalism, "professionalism", professionalism),
		e.setScore(&e.packageCare, "package care", packageCare),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEvaluation reconstructs an evaluation from persistence.
func RestoreEvaluation(
	id kernel.UUID,
	deliveryID kernel.UUID,
	courierID kernel.UUID,
	clientID kernel.UUID,
	note, punctuality, professionalism, packageCare int,
	comment string,
	createdAt time.Time,
) (*Evaluation, error) {
	e, err := NewEvaluation(id, deliveryID, courierID, clientID,
		note, punctuality, professionalism, packageCare, comment, createdAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Validate ensures the Evaluation was created via NewEvaluation.
func (e *Evaluation) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEvaluationIsNotConstructed
	}
	return nil
}

// ID returns the evaluation's unique identifier.
func (e *Evaluation) ID() kernel.UUID {
	return e.id
}

// DeliveryID returns the evaluated delivery.
func (e *Evaluation) DeliveryID() kernel.UUID {
	return e.deliveryID
}

// CourierID returns the rated courier.
func (e *Evaluation) CourierID() kernel.UUID {
	return e.courierID
}

// ClientID returns the rating client.
func (e *Evaluation) ClientID() kernel.UUID {
	return e.clientID
}

// Note returns the client's overall verdict on the delivery.
func (e *Evaluation) Note() int {
	return e.note
}

// Punctuality returns the punctuality sub-score.
func (e *Evaluation) Punctuality() int {
	return e.punctuality
}

// Professionalism returns the professionalism sub-score.
func (e *Evaluation) Professionalism() int {
	return e.professionalism
}

// PackageCare returns the package-care sub-score.
func (e *Evaluation) PackageCare() int {
	return e.packageCare
}

// Comment returns the free-text comment.
func (e *Evaluation) Comment() string {
	return e.comment
}

// CreatedAt returns the creation timestamp.
func (e *Evaluation) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Evaluation) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Evaluation) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	e.deliveryID = deliveryID
	return nil
}

func (e *Evaluation) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	e.courierID = courierID
	return nil
}

func (e *Evaluation) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	e.clientID = clientID
	return nil
}

func (e *Evaluation) setScore(field *int, name string, value int) error {
	if value < minScore || value > maxScore {
		return errs.NewValueIsOutOfRangeError(name, value, minScore, maxScore)
	}
	*field = value
	return nil
}
