package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateCourierPositionCommandIsNotConstructed = errors.New(
	"UpdateCourierPositionCommand must be created via NewUpdateCourierPositionCommand constructor",
)

// UpdateCourierPositionCommand represents one GPS report from a courier
// device. RecordedAt is the device timestamp, not the server arrival time;
// mobile networks deliver reports out of order.
type UpdateCourierPositionCommand struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	point      kernel.GeoPoint
	recordedAt time.Time
	speedKmh   *float64

	guard guard.ConstructorGuard
}

// NewUpdateCourierPositionCommand creates a command carrying one GPS report.
func NewUpdateCourierPositionCommand(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	recordedAt time.Time,
	speedKmh *float64,
) (UpdateCourierPositionCommand, error) {
	cmd := UpdateCourierPositionCommand{
		speedKmh: speedKmh,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCourierID(courierID),
		cmd.setPoint(point),
		cmd.setRecordedAt(recordedAt),
	); err != nil {
		return UpdateCourierPositionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateCourierPositionCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCourierPositionCommandIsNotConstructed)
}

// CourierID returns the reporting courier.
func (c UpdateCourierPositionCommand) CourierID() kernel.UUID {
	return c.courierID
}

// Point returns the reported coordinates.
func (c UpdateCourierPositionCommand) Point() kernel.GeoPoint {
	return c.point
}

// RecordedAt returns the device timestamp of the report.
func (c UpdateCourierPositionCommand) RecordedAt() time.Time {
	return c.recordedAt
}

// SpeedKmh returns the optional reported speed.
func (c UpdateCourierPositionCommand) SpeedKmh() *float64 {
	return c.speedKmh
}

func (c *UpdateCourierPositionCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	c.courierID = courierID
	return nil
}

func (c *UpdateCourierPositionCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	c.point = point
	return nil
}

func (c *UpdateCourierPositionCommand) setRecordedAt(recordedAt time.Time) error {
	if recordedAt.IsZero() {
		return errs.NewValueIsRequiredError("recorded at")
	}
	c.recordedAt = recordedAt
	return nil
}
