package queries

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// GetCourierPositionHistoryQueryHandler reads a courier's position trail,
// newest first.
type GetCourierPositionHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierPositionHistoryQueryHandler creates a handler for trail
// lookups.
func NewGetCourierPositionHistoryQueryHandler(db *gorm.DB) GetCourierPositionHistoryQueryHandler {
	return GetCourierPositionHistoryQueryHandler{db: db}
}

// Handle lists the samples recorded in the window, newest first.
func (h GetCourierPositionHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetCourierPositionHistoryQuery,
) ([]PositionSampleResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			lat,
			lon,
			recorded_at,
			speed_kmh
		FROM courier_position_samples
		WHERE courier_id = ? AND recorded_at >= ?
		ORDER BY recorded_at DESC
	`, query.CourierID().Bytes(), query.Since()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	samples := make([]PositionSampleResponse, 0)
	for rows.Next() {
		var sample PositionSampleResponse
		var recordedAt time.Time

		if err = rows.Scan(&sample.Lat, &sample.Lon, &recordedAt, &sample.SpeedKmh); err != nil {
			return nil, err
		}

		sample.RecordedAt = recordedAt.UTC().Format(time.RFC3339)
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}
