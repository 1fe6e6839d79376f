package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemInput is one requested line item with its catalog price snapshot.
type OrderItemInput struct {
	ProductID kernel.UUID
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderCommand represents a client's request to place an order with one
// merchant. The delivery point is optional; clients in informal addressing
// areas often give only a textual address.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	clientID        kernel.UUID
	merchantID      kernel.UUID
	deliveryAddress string
	deliveryPoint   *kernel.GeoPoint
	instructions    string
	paymentMethod   order.PaymentMethod
	items           []OrderItemInput

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
func NewCreateOrderCommand(
	orderID, clientID, merchantID kernel.UUID,
	deliveryAddress string,
	deliveryPoint *kernel.GeoPoint,
	instructions string,
	paymentMethod order.PaymentMethod,
	items []OrderItemInput,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		deliveryPoint: deliveryPoint,
		instructions:  instructions,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setClientID(clientID),
		cmd.setMerchantID(merchantID),
		cmd.setDeliveryAddress(deliveryAddress),
		cmd.setDeliveryPoint(deliveryPoint),
		cmd.setPaymentMethod(paymentMethod),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ClientID returns the ordering client.
func (c CreateOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

// MerchantID returns the fulfilling merchant.
func (c CreateOrderCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

// DeliveryAddress returns the drop-off address.
func (c CreateOrderCommand) DeliveryAddress() string {
	return c.deliveryAddress
}

// DeliveryPoint returns the optional drop-off coordinates.
func (c CreateOrderCommand) DeliveryPoint() *kernel.GeoPoint {
	return c.deliveryPoint
}

// Instructions returns the free-text delivery instructions.
func (c CreateOrderCommand) Instructions() string {
	return c.instructions
}

// PaymentMethod returns how the client pays.
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

// Items returns the requested line items.
func (c CreateOrderCommand) Items() []OrderItemInput {
	return c.items
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	c.clientID = clientID
	return nil
}

func (c *CreateOrderCommand) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	c.merchantID = merchantID
	return nil
}

func (c *CreateOrderCommand) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	c.deliveryAddress = address
	return nil
}

func (c *CreateOrderCommand) setDeliveryPoint(point *kernel.GeoPoint) error {
	if point != nil {
		return point.Validate()
	}
	return nil
}

func (c *CreateOrderCommand) setPaymentMethod(method order.PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	c.paymentMethod = method
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	c.items = items
	return nil
}
