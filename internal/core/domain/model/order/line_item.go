package order

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// ErrLineItemIsNotConstructed is returned when using an improperly
// initialized LineItem.
var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is an immutable snapshot of one ordered product. The unit price is
// copied from the catalog at order time and never recomputed afterwards, so
// later catalog changes cannot alter what the client agreed to pay.
type LineItem struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	name      string
	quantity  int
	unitPrice decimal.Decimal

	guard guard.ConstructorGuard
}

// NewLineItem creates a line item snapshot. Quantity must be positive and the
// unit price must not be negative.
func NewLineItem(productID kernel.UUID, name string, quantity int, unitPrice decimal.Decimal) (LineItem, error) {
	item := LineItem{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate checks that the LineItem was created via NewLineItem.
func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

// ProductID returns the referenced product.
func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

// Name returns the product display name captured at order time.
func (i LineItem) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i LineItem) Quantity() int {
	return i.quantity
}

// UnitPrice returns the price snapshot per unit.
func (i LineItem) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Subtotal returns quantity × unit price.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	i.name = name
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidError("quantity must be greater than 0")
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(unitPrice decimal.Decimal) error {
	if unitPrice.IsNegative() {
		return errs.NewValueIsInvalidError("unit price must not be negative")
	}
	i.unitPrice = unitPrice
	return nil
}
