package delivery

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through the NewDelivery or RestoreDelivery factory methods.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

// DefaultFee is the flat delivery fee applied when the merchant has not set
// one, in minor currency units of the marketplace.
func DefaultFee() decimal.Decimal {
	return decimal.NewFromInt(500)
}

// Delivery is the aggregate root for the physical transport of one validated
// order. It is created by the order-validated cascade and owns courier
// assignment, acceptance and execution. Assignment races are resolved by the
// repository using LoadedStatus as a compare-and-swap guard: the first writer
// wins and every loser gets a ConflictError.
type Delivery struct {
	id      kernel.UUID
	orderID kernel.UUID

	pickupAddress  string
	pickupPoint    *kernel.GeoPoint
	dropoffAddress string
	dropoffPoint   *kernel.GeoPoint

	instructions string

	fee decimal.Decimal

	courierID *kernel.UUID

	distanceM         *float64
	estimatedDuration *time.Duration

	status Status

	assignedAt  *time.Time
	acceptedAt  *time.Time
	startedAt   *time.Time
	completedAt *time.Time

	proofRef     string
	signatureRef string

	failureReason string

	createdAt time.Time
	updatedAt time.Time

	// loadedStatus is the status read from storage, used by the repository
	// to guard updates against concurrent writers.
	loadedStatus Status

	events []kernel.DomainEvent

	isConstructed bool
}

// NewDelivery creates an unassigned delivery task for a validated order. A
// non-positive fee falls back to DefaultFee.
func NewDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	pickupAddress string,
	pickupPoint *kernel.GeoPoint,
	dropoffAddress string,
	dropoffPoint *kernel.GeoPoint,
	instructions string,
	fee decimal.Decimal,
	now time.Time,
) (*Delivery, error) {
	d := &Delivery{
		instructions:  instructions,
		status:        StatusUnassigned,
		loadedStatus:  StatusUnknown,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		d.setPickup(pickupAddress, pickupPoint),
		d.setDropoff(dropoffAddress, dropoffPoint),
	); err != nil {
		return nil, err
	}

	if fee.IsPositive() {
		d.fee = fee
	} else {
		d.fee = DefaultFee()
	}

	return d, nil
}

// RestoreDelivery reconstructs a delivery from persistence without replaying
// its lifecycle. loadedStatus is captured for the repository's update guard.
func RestoreDelivery(
	id kernel.UUID,
	orderID kernel.UUID,
	pickupAddress string,
	pickupPoint *kernel.GeoPoint,
	dropoffAddress string,
	dropoffPoint *kernel.GeoPoint,
	instructions string,
	fee decimal.Decimal,
	courierID *kernel.UUID,
	distanceM *float64,
	estimatedDuration *time.Duration,
	status Status,
	assignedAt, acceptedAt, startedAt, completedAt *time.Time,
	proofRef, signatureRef string,
	failureReason string,
	createdAt, updatedAt time.Time,
) (*Delivery, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if pickupPoint != nil {
		if err := pickupPoint.Validate(); err != nil {
			return nil, err
		}
	}

	return &Delivery{
		id:                id,
		orderID:           orderID,
		pickupAddress:     pickupAddress,
		pickupPoint:       pickupPoint,
		dropoffAddress:    dropoffAddress,
		dropoffPoint:      dropoffPoint,
		instructions:      instructions,
		fee:               fee,
		courierID:         courierID,
		distanceM:         distanceM,
		estimatedDuration: estimatedDuration,
		status:            status,
		loadedStatus:      status,
		assignedAt:        assignedAt,
		acceptedAt:        acceptedAt,
		startedAt:         startedAt,
		completedAt:       completedAt,
		proofRef:          proofRef,
		signatureRef:      signatureRef,
		failureReason:     failureReason,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
		isConstructed:     true,
	}, nil
}

// Validate ensures the Delivery was created via NewDelivery or RestoreDelivery.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// OrderID returns the order this delivery transports.
func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

// PickupAddress returns the merchant pickup address.
func (d *Delivery) PickupAddress() string {
	return d.pickupAddress
}

// PickupPoint returns the merchant pickup coordinates, or nil when the
// merchant lookup failed at dispatch time and the task runs in degraded mode.
func (d *Delivery) PickupPoint() *kernel.GeoPoint {
	return d.pickupPoint
}

// DropoffAddress returns the client drop-off address.
func (d *Delivery) DropoffAddress() string {
	return d.dropoffAddress
}

// DropoffPoint returns the drop-off coordinates, or nil when only a textual
// address was given.
func (d *Delivery) DropoffPoint() *kernel.GeoPoint {
	return d.dropoffPoint
}

// Instructions returns the client's delivery instructions copied from the
// order.
func (d *Delivery) Instructions() string {
	return d.instructions
}

// Fee returns the delivery fee.
func (d *Delivery) Fee() decimal.Decimal {
	return d.fee
}

// CourierID returns the assigned courier, or nil while the task is pooled.
func (d *Delivery) CourierID() *kernel.UUID {
	return d.courierID
}

// DistanceM returns the estimated route distance in meters, if computed.
func (d *Delivery) DistanceM() *float64 {
	return d.distanceM
}

// EstimatedDuration returns the estimated ride duration, if computed.
func (d *Delivery) EstimatedDuration() *time.Duration {
	return d.estimatedDuration
}

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status {
	return d.status
}

// LoadedStatus returns the status the delivery had when read from storage.
// For a fresh delivery it is StatusUnknown.
func (d *Delivery) LoadedStatus() Status {
	return d.loadedStatus
}

// AssignedAt returns when the current courier was offered the task.
func (d *Delivery) AssignedAt() *time.Time {
	return d.assignedAt
}

// AcceptedAt returns when the courier committed to the task.
func (d *Delivery) AcceptedAt() *time.Time {
	return d.acceptedAt
}

// StartedAt returns when the courier picked up the package.
func (d *Delivery) StartedAt() *time.Time {
	return d.startedAt
}

// CompletedAt returns when the package was handed over.
func (d *Delivery) CompletedAt() *time.Time {
	return d.completedAt
}

// ProofRef returns the opaque proof-of-delivery artifact reference.
func (d *Delivery) ProofRef() string {
	return d.proofRef
}

// SignatureRef returns the opaque client-signature artifact reference.
func (d *Delivery) SignatureRef() string {
	return d.signatureRef
}

// FailureReason returns the courier's reason for a failed delivery.
func (d *Delivery) FailureReason() string {
	return d.failureReason
}

// CreatedAt returns the creation timestamp.
func (d *Delivery) CreatedAt() time.Time {
	return d.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (d *Delivery) UpdatedAt() time.Time {
	return d.updatedAt
}

// Events returns the domain events recorded since the aggregate was loaded.
func (d *Delivery) Events() []kernel.DomainEvent {
	return d.events
}

// ClearEvents drops recorded events after they have been dispatched.
func (d *Delivery) ClearEvents() {
	d.events = nil
}

// SetEstimates records the straight-line distance and estimated duration for
// the assigned courier's ride.
func (d *Delivery) SetEstimates(distanceM float64, duration time.Duration) error {
	if distanceM < 0 {
		return errs.NewValueIsInvalidError("distance must not be negative")
	}
	d.distanceM = &distanceM
	d.estimatedDuration = &duration
	return nil
}

// Assign offers the task to a courier. Only an unassigned task can be
// offered; the persistence layer turns a lost race on this transition into a
// ConflictError.
func (d *Delivery) Assign(courierID kernel.UUID, now time.Time) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(StatusAssigned)
	if err != nil {
		return err
	}

	d.status = next
	d.courierID = &courierID
	d.assignedAt = &now
	d.updatedAt = now

	event := AssignedEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: courierID}
	if d.distanceM != nil {
		event.DistanceM = *d.distanceM
	}
	d.events = append(d.events, event)
	return nil
}

// Accept commits the assigned courier to the task. Any other courier gets a
// ForbiddenError regardless of status.
func (d *Delivery) Accept(actor kernel.Actor, now time.Time) error {
	if err := d.authorizeCourier(actor, "accept delivery "+d.id.String()); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(StatusAccepted)
	if err != nil {
		return err
	}

	d.status = next
	d.acceptedAt = &now
	d.updatedAt = now
	d.events = append(d.events, AcceptedEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: *d.courierID})
	return nil
}

// Refuse returns the task to the pool. Only the assigned courier may refuse,
// and only before pickup. The courier link and the offer timestamps are
// cleared so the task re-enters dispatch as if it had never been offered.
func (d *Delivery) Refuse(actor kernel.Actor, now time.Time) error {
	if err := d.authorizeCourier(actor, "refuse delivery "+d.id.String()); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(StatusUnassigned)
	if err != nil {
		return err
	}

	refused := *d.courierID
	d.status = next
	d.courierID = nil
	d.assignedAt = nil
	d.acceptedAt = nil
	d.distanceM = nil
	d.estimatedDuration = nil
	d.updatedAt = now
	d.events = append(d.events, RefusedEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: refused})
	return nil
}

// Start marks the package as picked up by the accepted courier.
func (d *Delivery) Start(actor kernel.Actor, now time.Time) error {
	if err := d.authorizeCourier(actor, "start delivery "+d.id.String()); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(StatusInProgress)
	if err != nil {
		return err
	}

	d.status = next
	d.startedAt = &now
	d.updatedAt = now
	d.events = append(d.events, StartedEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: *d.courierID})
	return nil
}

// Complete marks the package as handed over. The artifact references are
// opaque strings pointing at externally stored proof and signature files;
// both may be empty.
func (d *Delivery) Complete(actor kernel.Actor, proofRef, signatureRef string, now time.Time) error {
	if err := d.authorizeCourier(actor, "complete delivery "+d.id.String()); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(StatusCompleted)
	if err != nil {
		return err
	}

	d.status = next
	d.completedAt = &now
	d.proofRef = proofRef
	d.signatureRef = signatureRef
	d.updatedAt = now
	d.events = append(d.events, CompletedEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: *d.courierID})
	return nil
}

// Fail marks an in-progress delivery as undeliverable.
func (d *Delivery) Fail(actor kernel.Actor, reason string, now time.Time) error {
	if err := d.authorizeCourier(actor, "fail delivery "+d.id.String()); err != nil {
		return err
	}

	next, err := d.status.TransitionTo(StatusFailed)
	if err != nil {
		return err
	}

	d.status = next
	d.failureReason = reason
	d.updatedAt = now
	d.events = append(d.events, FailedEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: *d.courierID, Reason: reason})
	return nil
}

// Cancel withdraws the task before pickup, driven by the order cancellation
// cascade. Couriers cannot cancel; they refuse instead.
func (d *Delivery) Cancel(actor kernel.Actor, now time.Time) error {
	if !actor.IsSystem() {
		return errs.NewForbiddenError(actor.String(), "cancel delivery "+d.id.String())
	}

	next, err := d.status.TransitionTo(StatusCancelled)
	if err != nil {
		return err
	}

	d.status = next
	d.updatedAt = now
	d.events = append(d.events, CancelledEvent{DeliveryID: d.id, OrderID: d.orderID, CourierID: d.courierID})
	return nil
}

// authorizeCourier checks that actor is the courier currently linked to the
// task. The system actor passes for cascade-driven moves.
func (d *Delivery) authorizeCourier(actor kernel.Actor, action string) error {
	if actor.IsSystem() {
		return nil
	}
	if actor.Role() != kernel.RoleCourier {
		return errs.NewForbiddenError(actor.String(), action)
	}
	if d.courierID == nil || !actor.ID().IsEqual(*d.courierID) {
		return errs.NewForbiddenError(actor.String(), action)
	}
	return nil
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	d.orderID = orderID
	return nil
}

func (d *Delivery) setPickup(address string, point *kernel.GeoPoint) error {
	if address == "" {
		return errs.NewValueIsRequiredError("pickup address")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return err
		}
	}
	d.pickupAddress = address
	d.pickupPoint = point
	return nil
}

func (d *Delivery) setDropoff(address string, point *kernel.GeoPoint) error {
	if address == "" {
		return errs.NewValueIsRequiredError("dropoff address")
	}
	if point != nil {
		if err := point.Validate(); err != nil {
			return err
		}
	}
	d.dropoffAddress = address
	d.dropoffPoint = point
	return nil
}
