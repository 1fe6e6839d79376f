// Package merchantdirectory resolves merchant pickup data from the shared
// merchants table. Merchant master data is written by the marketplace
// backoffice; dispatch only reads it.
package merchantdirectory

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MerchantDTO is the database row for one merchant. Coordinates are nullable:
// market stalls without a surveyed position still take orders, their
// dispatches just run without estimates.
type MerchantDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	Address   string
	Lat       *float64
	Lon       *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName maps the DTO onto the "merchants" table.
func (MerchantDTO) TableName() string {
	return "merchants"
}

// GormMerchantDirectory implements ports.MerchantDirectory over GORM.
type GormMerchantDirectory struct {
	db *gorm.DB
}

// NewGormMerchantDirectory creates a merchant directory on the given
// connection.
func NewGormMerchantDirectory(db *gorm.DB) *GormMerchantDirectory {
	return &GormMerchantDirectory{db: db}
}

// Lookup returns the merchant's pickup data, or an ObjectNotFoundError.
func (d *GormMerchantDirectory) Lookup(ctx context.Context, merchantID kernel.UUID) (ports.MerchantInfo, error) {
	if err := merchantID.Validate(); err != nil {
		return ports.MerchantInfo{}, err
	}

	var dto MerchantDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", merchantID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MerchantInfo{}, errs.NewObjectNotFoundError("merchant", merchantID.String())
		}
		return ports.MerchantInfo{}, err
	}

	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.MerchantInfo{}, err
	}

	info := ports.MerchantInfo{
		ID:      id,
		Name:    dto.Name,
		Address: dto.Address,
	}
	if dto.Lat != nil && dto.Lon != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Lat, *dto.Lon)
		if pointErr != nil {
			return ports.MerchantInfo{}, pointErr
		}
		info.Point = &point
	}

	return info, nil
}
