package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrPositionSampleIsNotConstructed is returned when a PositionSample was not
// created through the NewPositionSample factory method.
var ErrPositionSampleIsNotConstructed = errors.New("PositionSample must be created via NewPositionSample constructor")

// PositionSample is one accepted GPS report, kept as an append-only history
// row next to the courier's live position. Samples are pruned after the
// retention window by a background job.
type PositionSample struct {
	id         kernel.UUID
	courierID  kernel.UUID
	point      kernel.GeoPoint
	recordedAt time.Time
	speedKmh   *float64

	isConstructed bool
}

// NewPositionSample creates a history row for an accepted position update.
func NewPositionSample(id, courierID kernel.UUID, point kernel.GeoPoint, recordedAt time.Time, speedKmh *float64) (*PositionSample, error) {
	if err := errors.Join(id.Validate(), courierID.Validate(), point.Validate()); err != nil {
		return nil, err
	}
	return &PositionSample{
		id:            id,
		courierID:     courierID,
		point:         point,
		recordedAt:    recordedAt,
		speedKmh:      speedKmh,
		isConstructed: true,
	}, nil
}

// Validate ensures the sample was created via NewPositionSample.
func (s *PositionSample) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrPositionSampleIsNotConstructed
	}
	return nil
}

// ID returns the sample's unique identifier.
func (s *PositionSample) ID() kernel.UUID {
	return s.id
}

// CourierID returns the reporting courier.
func (s *PositionSample) CourierID() kernel.UUID {
	return s.courierID
}

// Point returns the reported coordinates.
func (s *PositionSample) Point() kernel.GeoPoint {
	return s.point
}

// RecordedAt returns the device timestamp of the report.
func (s *PositionSample) RecordedAt() time.Time {
	return s.recordedAt
}

// SpeedKmh returns the reported speed, or nil when the device sent none.
func (s *PositionSample) SpeedKmh() *float64 {
	return s.speedKmh
}
