package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrCourierIsNotConstructed is returned when a Courier instance was not
// created through the NewCourier or RestoreCourier factory methods.
var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

// ErrStalePosition is returned when a position report carries a device
// timestamp older than the one already stored. Mobile networks reorder
// reports; the newest device timestamp wins and stale reports are dropped
// without touching state.
var ErrStalePosition = errors.New("position report is older than the stored one")

// Courier is the aggregate root for a registered delivery rider. It carries
// the live dispatch inputs: availability, last known position with its device
// timestamp, the rolling rating and the completed-delivery count.
type Courier struct {
	id    kernel.UUID
	name  string
	phone string

	vehicle VehicleType

	isAvailable bool
	isOnline    bool

	position   *kernel.GeoPoint
	positionAt *time.Time

	rating         decimal.Decimal
	completedCount int

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewCourier registers a courier. A new courier starts unavailable and
// offline, with no position, a zero rating and no completed deliveries.
func NewCourier(id kernel.UUID, name, phone string, vehicle VehicleType, now time.Time) (*Courier, error) {
	c := &Courier{
		rating:        decimal.Zero,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		c.setPhone(phone),
		c.setVehicle(vehicle),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a courier from persistence.
func RestoreCourier(
	id kernel.UUID,
	name, phone string,
	vehicle VehicleType,
	isAvailable bool,
	isOnline bool,
	position *kernel.GeoPoint,
	positionAt *time.Time,
	rating decimal.Decimal,
	completedCount int,
	createdAt, updatedAt time.Time,
) (*Courier, error) {
	if err := errors.Join(id.Validate(), vehicle.Validate()); err != nil {
		return nil, err
	}

	return &Courier{
		id:             id,
		name:           name,
		phone:          phone,
		vehicle:        vehicle,
		isAvailable:    isAvailable,
		isOnline:       isOnline,
		position:       position,
		positionAt:     positionAt,
		rating:         rating,
		completedCount: completedCount,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
		isConstructed:  true,
	}, nil
}

// Validate ensures the Courier was created via NewCourier or RestoreCourier.
func (c *Courier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCourierIsNotConstructed
	}
	return nil
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's display name.
func (c *Courier) Name() string {
	return c.name
}

// Phone returns the courier's phone number.
func (c *Courier) Phone() string {
	return c.phone
}

// Vehicle returns the courier's vehicle type.
func (c *Courier) Vehicle() VehicleType {
	return c.vehicle
}

// IsAvailable reports whether the courier opted in to receiving offers.
func (c *Courier) IsAvailable() bool {
	return c.isAvailable
}

// IsOnline reports whether the courier's app currently has a session.
func (c *Courier) IsOnline() bool {
	return c.isOnline
}

// Position returns the last accepted position, or nil before the first report.
func (c *Courier) Position() *kernel.GeoPoint {
	return c.position
}

// PositionAt returns the device timestamp of the last accepted position.
func (c *Courier) PositionAt() *time.Time {
	return c.positionAt
}

// Rating returns the rolling average rating, two decimal places.
func (c *Courier) Rating() decimal.Decimal {
	return c.rating
}

// CompletedCount returns the number of completed deliveries.
func (c *Courier) CompletedCount() int {
	return c.completedCount
}

// CreatedAt returns the registration timestamp.
func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (c *Courier) UpdatedAt() time.Time {
	return c.updatedAt
}

// UpdatePosition applies a GPS report. Reports whose device timestamp is
// older than the stored one return ErrStalePosition and leave the courier
// untouched; a report stamped at the same instant is a legitimate re-send and
// overwrites. An accepted report returns the history sample to append.
func (c *Courier) UpdatePosition(point kernel.GeoPoint, recordedAt time.Time, speedKmh *float64, now time.Time) (*PositionSample, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if c.positionAt != nil && recordedAt.Before(*c.positionAt) {
		return nil, ErrStalePosition
	}

	c.position = &point
	c.positionAt = &recordedAt
	c.updatedAt = now

	return NewPositionSample(kernel.NewUUID(), c.id, point, recordedAt, speedKmh)
}

// SetAvailability flips the courier's opt-in and session flags. Held
// deliveries are never released here; going dark only stops new offers.
func (c *Courier) SetAvailability(available, online bool, now time.Time) {
	c.isAvailable = available
	c.isOnline = online
	c.updatedAt = now
}

// RecordCompletedDelivery bumps the completed-delivery counter.
func (c *Courier) RecordCompletedDelivery(now time.Time) {
	c.completedCount++
	c.updatedAt = now
}

// ApplyRating stores a recomputed rolling rating. The value is the average of
// all evaluation overall scores and must stay on the 0..5 scale.
func (c *Courier) ApplyRating(rating decimal.Decimal, now time.Time) error {
	if rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(5)) {
		return errs.NewValueIsOutOfRangeError("rating", rating, 0, 5)
	}
	c.rating = rating.Round(2)
	c.updatedAt = now
	return nil
}

// IsDispatchable reports whether the courier can receive offers: opted in,
// online, and with a position reported no longer than maxPositionAge before
// now.
func (c *Courier) IsDispatchable(now time.Time, maxPositionAge time.Duration) bool {
	if !c.isAvailable || !c.isOnline || c.position == nil || c.positionAt == nil {
		return false
	}
	return now.Sub(*c.positionAt) <= maxPositionAge
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("courier name")
	}
	c.name = name
	return nil
}

func (c *Courier) setPhone(phone string) error {
	if phone == "" {
		return errs.NewValueIsRequiredError("courier phone")
	}
	c.phone = phone
	return nil
}

func (c *Courier) setVehicle(vehicle VehicleType) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	c.vehicle = vehicle
	return nil
}
