// Package queries contains read operations serving the HTTP surface. Queries
// bypass the aggregates and read straight from the database, returning flat
// read models shaped for their endpoint.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order with its line items.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// OrderItemResponse is one line item in the order read model.
type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// GetOrderQueryResponse is the order read model.
type GetOrderQueryResponse struct {
	ID              string              `json:"id"`
	ClientID        string              `json:"client_id"`
	MerchantID      string              `json:"merchant_id"`
	Reference       string              `json:"reference"`
	DeliveryAddress string              `json:"delivery_address"`
	DeliveryLat     *float64            `json:"delivery_lat,omitempty"`
	DeliveryLon     *float64            `json:"delivery_lon,omitempty"`
	Instructions    string              `json:"instructions,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	Status          string              `json:"status"`
	Total           string              `json:"total"`
	Items           []OrderItemResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
	UpdatedAt       string              `json:"updated_at"`
}
