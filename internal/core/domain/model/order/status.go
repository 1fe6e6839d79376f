package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a purchase order. All transition rules
// live in one table here; call sites never guard on raw status values.
//
// State transitions:
//
//	created ──> validated ──> preparing ──> ready ──> in_delivery ──> delivered
//	   │            │ │           │                        ▲
//	   │            │ └───────────┼────────────────────────┘ (system shortcut
//	   ▼            ▼             ▼                           when the courier
//	cancelled   cancelled     cancelled                       starts early)
//
// delivered and cancelled are terminal.
type Status int

const (
	// StatusUnknown is the invalid zero value.
	StatusUnknown Status = iota
	// StatusCreated is the initial state; line items are still editable.
	StatusCreated
	// StatusValidated means the merchant accepted the order. Entering it
	// creates the delivery task.
	StatusValidated
	// StatusPreparing means the merchant is preparing the order.
	StatusPreparing
	// StatusReady means the order awaits courier pickup.
	StatusReady
	// StatusInDelivery means the linked delivery is under way.
	StatusInDelivery
	// StatusDelivered is terminal; only reached through the linked delivery
	// completing, never by a direct merchant call.
	StatusDelivered
	// StatusCancelled is terminal.
	StatusCancelled
)

// allowedTransitions is the single authoritative transition table for orders.
// validated→in_delivery is the system shortcut used when a courier starts the
// delivery before the merchant has walked the preparing/ready steps.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		StatusCreated:    {StatusValidated, StatusCancelled},
		StatusValidated:  {StatusPreparing, StatusInDelivery, StatusCancelled},
		StatusPreparing:  {StatusReady, StatusCancelled},
		StatusReady:      {StatusInDelivery},
		StatusInDelivery: {StatusDelivered},
		StatusDelivered:  {},
		StatusCancelled:  {},
	}
}

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusCreated:    "created",
		StatusValidated:  "validated",
		StatusPreparing:  "preparing",
		StatusReady:      "ready",
		StatusInDelivery: "in_delivery",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
	}
}

// String returns the snake_case status name, or "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects StatusUnknown and any out-of-band value.
func (s Status) Validate() error {
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether target is in the allowed-next set.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns target if the move is legal, or an
// InvalidTransitionError leaving the caller's stored status untouched.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewInvalidTransitionError("order", s.String(), target.String())
	}
	return target, nil
}

// ParseStatus converts a snake_case status name to its Status value.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusStrings() {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("order status",
		fmt.Errorf("%q is not a valid status", s))
}
