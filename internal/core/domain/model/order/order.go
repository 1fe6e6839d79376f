package order

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// ErrItemsLocked is returned when line items are changed after the order has
// left the created state. The items become an immutable contract the moment
// the merchant can see them.
var ErrItemsLocked = errors.New("line items are locked once the order leaves created")

// referencePrefix is prepended to the derived human-readable order reference.
const referencePrefix = "ORD-"

// Order is the aggregate root for a client's purchase from one merchant. It
// owns the order lifecycle and the authority rules deciding which actor may
// drive each transition. Delivery execution lives in a separate aggregate
// linked by order ID; the two only meet through the delivered cascade, which
// runs as the system actor.
//
// Invariants:
//   - at least one line item, each a validated snapshot
//   - total always equals the sum of line-item subtotals
//   - status only changes through Transition, never by direct assignment
//   - items are frozen once status leaves created
type Order struct {
	id         kernel.UUID
	clientID   kernel.UUID
	merchantID kernel.UUID
	reference  string

	deliveryAddress string
	deliveryPoint   *kernel.GeoPoint
	instructions    string

	paymentMethod PaymentMethod
	paymentStatus PaymentStatus

	items  []LineItem
	status Status

	createdAt time.Time
	updatedAt time.Time

	// loadedStatus is the status read from storage, used by the repository
	// to guard updates against concurrent writers.
	loadedStatus Status

	events []kernel.DomainEvent

	isConstructed bool
}

// NewOrder creates an order in the created state. The reference is derived
// from the ID so it is stable without a storage round trip.
func NewOrder(
	id kernel.UUID,
	clientID kernel.UUID,
	merchantID kernel.UUID,
	deliveryAddress string,
	deliveryPoint *kernel.GeoPoint,
	instructions string,
	paymentMethod PaymentMethod,
	items []LineItem,
	now time.Time,
) (*Order, error) {
	order := &Order{
		status:        StatusCreated,
		loadedStatus:  StatusUnknown,
		paymentStatus: PaymentPending,
		instructions:  instructions,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setClientID(clientID),
		order.setMerchantID(merchantID),
		order.setDeliveryAddress(deliveryAddress),
		order.setDeliveryPoint(deliveryPoint),
		order.setPaymentMethod(paymentMethod),
		order.setItems(items),
	); err != nil {
		return nil, err
	}

	order.reference = referencePrefix + strings.ToUpper(id.String()[:8])
	return order, nil
}

// RestoreOrder reconstructs an order from persistence without replaying its
// lifecycle. loadedStatus is captured for the repository's update guard.
func RestoreOrder(
	id kernel.UUID,
	clientID kernel.UUID,
	merchantID kernel.UUID,
	reference string,
	deliveryAddress string,
	deliveryPoint *kernel.GeoPoint,
	instructions string,
	paymentMethod PaymentMethod,
	paymentStatus PaymentStatus,
	items []LineItem,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(), clientID.Validate(), merchantID.Validate(),
		paymentMethod.Validate(), paymentStatus.Validate(), status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		clientID:        clientID,
		merchantID:      merchantID,
		reference:       reference,
		deliveryAddress: deliveryAddress,
		deliveryPoint:   deliveryPoint,
		instructions:    instructions,
		paymentMethod:   paymentMethod,
		paymentStatus:   paymentStatus,
		items:           items,
		status:          status,
		loadedStatus:    status,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order was created via NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ClientID returns the ordering client.
func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// MerchantID returns the fulfilling merchant.
func (o *Order) MerchantID() kernel.UUID {
	return o.merchantID
}

// Reference returns the human-readable order reference.
func (o *Order) Reference() string {
	return o.reference
}

// DeliveryAddress returns the free-text drop-off address.
func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// DeliveryPoint returns the drop-off coordinates, or nil when the client gave
// only a textual address.
func (o *Order) DeliveryPoint() *kernel.GeoPoint {
	return o.deliveryPoint
}

// Instructions returns the client's free-text delivery instructions.
func (o *Order) Instructions() string {
	return o.instructions
}

// PaymentMethod returns how the client pays.
func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// PaymentStatus returns the externally-owned payment state.
func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// Total returns the sum of all line-item subtotals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// LoadedStatus returns the status the order had when read from storage. For a
// fresh order it is StatusUnknown.
func (o *Order) LoadedStatus() Status {
	return o.loadedStatus
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Events returns the domain events recorded since the aggregate was loaded.
func (o *Order) Events() []kernel.DomainEvent {
	return o.events
}

// ClearEvents drops recorded events after they have been dispatched.
func (o *Order) ClearEvents() {
	o.events = nil
}

// AddItem appends a line item while the order is still in created. After the
// merchant can see the order the item list is a contract and never changes.
func (o *Order) AddItem(item LineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if o.status != StatusCreated {
		return ErrItemsLocked
	}
	o.items = append(o.items, item)
	return nil
}

// MarkPayment records the externally-owned payment status.
func (o *Order) MarkPayment(status PaymentStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.paymentStatus = status
	return nil
}

// Transition moves the order to target on behalf of actor, enforcing both the
// transition table and actor authority. On an illegal move the stored status
// is untouched and an InvalidTransitionError is returned; on an authority
// failure a ForbiddenError is returned before the table is even consulted.
func (o *Order) Transition(target Status, actor kernel.Actor, now time.Time) error {
	if err := o.authorize(target, actor); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	o.status = next
	o.updatedAt = now
	o.recordTransitionEvent(target, actor)
	return nil
}

// authorize decides whether actor may request the target status on this
// order. Merchant steps require the owning merchant, the client may only
// cancel early, and the delivery-driven states belong to the system alone.
func (o *Order) authorize(target Status, actor kernel.Actor) error {
	if actor.IsSystem() {
		return nil
	}

	switch target {
	case StatusValidated, StatusPreparing, StatusReady:
		if actor.Role() != kernel.RoleMerchant || !actor.ID().IsEqual(o.merchantID) {
			return errs.NewForbiddenError(actor.String(), "move order "+o.id.String()+" to "+target.String())
		}
	case StatusInDelivery, StatusDelivered:
		return errs.NewForbiddenError(actor.String(), "move order "+o.id.String()+" to "+target.String())
	case StatusCancelled:
		return o.authorizeCancel(actor)
	case StatusUnknown, StatusCreated:
		return errs.NewForbiddenError(actor.String(), "move order "+o.id.String()+" to "+target.String())
	}
	return nil
}

func (o *Order) authorizeCancel(actor kernel.Actor) error {
	switch actor.Role() {
	case kernel.RoleClient:
		if !actor.ID().IsEqual(o.clientID) {
			return errs.NewForbiddenError(actor.String(), "cancel order "+o.id.String())
		}
		// The client may back out only before the merchant starts preparing.
		if o.status != StatusCreated && o.status != StatusValidated {
			return errs.NewForbiddenError(actor.String(), "cancel order "+o.id.String())
		}
	case kernel.RoleMerchant:
		if !actor.ID().IsEqual(o.merchantID) {
			return errs.NewForbiddenError(actor.String(), "cancel order "+o.id.String())
		}
	case kernel.RoleCourier, kernel.RoleSystem, kernel.RoleUnknown:
		return errs.NewForbiddenError(actor.String(), "cancel order "+o.id.String())
	}
	return nil
}

func (o *Order) recordTransitionEvent(target Status, actor kernel.Actor) {
	switch target {
	case StatusValidated:
		o.events = append(o.events, ValidatedEvent{OrderID: o.id, MerchantID: o.merchantID})
	case StatusCancelled:
		o.events = append(o.events, CancelledEvent{OrderID: o.id, Actor: actor})
	case StatusDelivered:
		o.events = append(o.events, DeliveredEvent{OrderID: o.id, ClientID: o.clientID})
	case StatusUnknown, StatusCreated, StatusPreparing, StatusReady, StatusInDelivery:
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	o.clientID = clientID
	return nil
}

func (o *Order) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}
	o.merchantID = merchantID
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setDeliveryPoint(point *kernel.GeoPoint) error {
	if point != nil {
		if err := point.Validate(); err != nil {
			return err
		}
	}
	o.deliveryPoint = point
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}
