package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierPositionHistoryQueryIsNotConstructed = errors.New(
	"GetCourierPositionHistoryQuery must be created via NewGetCourierPositionHistoryQuery constructor",
)

// GetCourierPositionHistoryQuery retrieves a courier's position trail within
// a time window.
type GetCourierPositionHistoryQuery struct {
	courierID kernel.UUID
	since     time.Time

	guard guard.ConstructorGuard
}

// NewGetCourierPositionHistoryQuery creates a position history query.
func NewGetCourierPositionHistoryQuery(courierID kernel.UUID, since time.Time) (GetCourierPositionHistoryQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierPositionHistoryQuery{}, err
	}
	if since.IsZero() {
		return GetCourierPositionHistoryQuery{}, errs.NewValueIsRequiredError("since")
	}
	return GetCourierPositionHistoryQuery{
		courierID: courierID,
		since:     since,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierPositionHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierPositionHistoryQueryIsNotConstructed)
}

// CourierID returns the courier whose trail is requested.
func (q GetCourierPositionHistoryQuery) CourierID() kernel.UUID {
	return q.courierID
}

// Since returns the start of the window.
func (q GetCourierPositionHistoryQuery) Since() time.Time {
	return q.since
}

// PositionSampleResponse is one GPS report in the trail.
type PositionSampleResponse struct {
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	RecordedAt string   `json:"recorded_at"`
	SpeedKmh   *float64 `json:"speed_kmh,omitempty"`
}
