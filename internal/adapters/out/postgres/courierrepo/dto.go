// Package courierrepo persists courier aggregates and their position
// history.
package courierrepo

import (
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourierDTO is the database row for one courier. The current position lives
// on the courier row; the trail lives in courier_position_samples.
type CourierDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Phone          string `gorm:"size:32"`
	Vehicle        string `gorm:"size:32"`
	IsAvailable    bool   `gorm:"index"`
	IsOnline       bool
	Lat            *float64
	Lon            *float64
	PositionAt     *time.Time
	Rating         decimal.Decimal `gorm:"type:numeric(4,2)"`
	CompletedCount int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName maps the DTO onto the "couriers" table.
func (CourierDTO) TableName() string {
	return "couriers"
}

// PositionSampleDTO is one accepted GPS report. The retention job deletes on
// recorded_at, so it is indexed together with the courier.
type PositionSampleDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID  uuid.UUID `gorm:"type:uuid;index:idx_position_samples_courier_recorded"`
	Lat        float64
	Lon        float64
	RecordedAt time.Time `gorm:"index:idx_position_samples_courier_recorded;index"`
	SpeedKmh   *float64
}

// TableName maps the DTO onto the "courier_position_samples" table.
func (PositionSampleDTO) TableName() string {
	return "courier_position_samples"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	dto := CourierDTO{
		ID:             aggregate.ID().Bytes(),
		Name:           aggregate.Name(),
		Phone:          aggregate.Phone(),
		Vehicle:        aggregate.Vehicle().String(),
		IsAvailable:    aggregate.IsAvailable(),
		IsOnline:       aggregate.IsOnline(),
		PositionAt:     aggregate.PositionAt(),
		Rating:         aggregate.Rating(),
		CompletedCount: aggregate.CompletedCount(),
		CreatedAt:      aggregate.CreatedAt(),
		UpdatedAt:      aggregate.UpdatedAt(),
	}

	if point := aggregate.Position(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		dto.Lat, dto.Lon = &lat, &lon
	}

	return dto
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	vehicle, err := courier.ParseVehicleType(dto.Vehicle)
	if err != nil {
		return nil, err
	}

	var position *kernel.GeoPoint
	if dto.Lat != nil && dto.Lon != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if pointErr != nil {
			return nil, pointErr
		}
		position = &point
	}

	return courier.RestoreCourier(
		id, dto.Name, dto.Phone, vehicle,
		dto.IsAvailable, dto.IsOnline,
		position, dto.PositionAt,
		dto.Rating, dto.CompletedCount,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func sampleFromDomain(sample *courier.PositionSample) PositionSampleDTO {
	return PositionSampleDTO{
		ID:         sample.ID().Bytes(),
		CourierID:  sample.CourierID().Bytes(),
		Lat:        sample.Point().Latitude(),
		Lon:        sample.Point().Longitude(),
		RecordedAt: sample.RecordedAt(),
		SpeedKmh:   sample.SpeedKmh(),
	}
}

func sampleToDomain(dto PositionSampleDTO) (*courier.PositionSample, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lon)
	if err != nil {
		return nil, err
	}

	return courier.NewPositionSample(id, courierID, point, dto.RecordedAt, dto.SpeedKmh)
}
