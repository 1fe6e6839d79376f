// Package orderrepo persists order aggregates and their line items.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the database row for one order. Statuses are stored as their
// snake_case names so queries and migrations stay readable.
type OrderDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClientID        uuid.UUID `gorm:"type:uuid;index"`
	MerchantID      uuid.UUID `gorm:"type:uuid;index"`
	Reference       string    `gorm:"size:16;uniqueIndex"`
	DeliveryAddress string
	DeliveryLat     *float64
	DeliveryLon     *float64
	Instructions    string
	PaymentMethod   string `gorm:"size:32"`
	PaymentStatus   string `gorm:"size:32"`
	Status          string `gorm:"size:32;index"`
	Items           []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName maps the DTO onto the "orders" table.
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one line item row. The surrogate key keeps insertion order
// for listings.
type OrderItemDTO struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	ProductID uuid.UUID `gorm:"type:uuid"`
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2)"`
}

// TableName maps the DTO onto the "order_items" table.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var deliveryLat, deliveryLon *float64
	if point := aggregate.DeliveryPoint(); point != nil {
		lat, lon := point.Latitude(), point.Longitude()
		deliveryLat, deliveryLon = &lat, &lon
	}

	items := make([]OrderItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:              aggregate.ID().Bytes(),
		ClientID:        aggregate.ClientID().Bytes(),
		MerchantID:      aggregate.MerchantID().Bytes(),
		Reference:       aggregate.Reference(),
		DeliveryAddress: aggregate.DeliveryAddress(),
		DeliveryLat:     deliveryLat,
		DeliveryLon:     deliveryLon,
		Instructions:    aggregate.Instructions(),
		PaymentMethod:   aggregate.PaymentMethod().String(),
		PaymentStatus:   aggregate.PaymentStatus().String(),
		Status:          aggregate.Status().String(),
		Items:           items,
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}

	var deliveryPoint *kernel.GeoPoint
	if dto.DeliveryLat != nil && dto.DeliveryLon != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.DeliveryLat, *dto.DeliveryLon)
		if pointErr != nil {
			return nil, pointErr
		}
		deliveryPoint = &point
	}

	paymentMethod, err := order.ParsePaymentMethod(dto.PaymentMethod)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.ParsePaymentStatus(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}
		item, itemErr := order.NewLineItem(productID, itemDTO.Name, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, clientID, merchantID, dto.Reference,
		dto.DeliveryAddress, deliveryPoint, dto.Instructions,
		paymentMethod, paymentStatus, items, status,
		dto.CreatedAt, dto.UpdatedAt,
	)
}
