package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// PaymentMethod is how the client pays. The core never captures payments; it
// only records the method and the externally-owned status.
type PaymentMethod int

const (
	// PaymentMethodUnknown is the invalid zero value.
	PaymentMethodUnknown PaymentMethod = iota
	// PaymentCash is cash on delivery.
	PaymentCash
	// PaymentPrepaidGateway is an upfront card/gateway payment.
	PaymentPrepaidGateway
	// PaymentMobileMoney is a mobile-money wallet payment.
	PaymentMobileMoney
)

func paymentMethodStrings() map[PaymentMethod]string {
	return map[PaymentMethod]string{
		PaymentCash:           "cash",
		PaymentPrepaidGateway: "prepaid_gateway",
		PaymentMobileMoney:    "mobile_money",
	}
}

// String returns the snake_case method name.
func (m PaymentMethod) String() string {
	if str, ok := paymentMethodStrings()[m]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects PaymentMethodUnknown and out-of-band values.
func (m PaymentMethod) Validate() error {
	if _, ok := paymentMethodStrings()[m]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment method",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// ParsePaymentMethod converts a snake_case method name to its value.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for method, name := range paymentMethodStrings() {
		if name == s {
			return method, nil
		}
	}
	return PaymentMethodUnknown, errs.NewValueIsInvalidErrorWithCause("payment method",
		fmt.Errorf("%q is not a valid payment method", s))
}

// PaymentStatus is the externally-owned result of payment processing. The
// core stores it verbatim and never originates payment state itself.
type PaymentStatus int

const (
	// PaymentStatusUnknown is the invalid zero value.
	PaymentStatusUnknown PaymentStatus = iota
	// PaymentPending means the payment has not settled yet.
	PaymentPending
	// PaymentPaid means the payment settled.
	PaymentPaid
	// PaymentFailed means the payment was rejected.
	PaymentFailed
	// PaymentRefunded means a settled payment was returned.
	PaymentRefunded
)

func paymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentPending:  "pending",
		PaymentPaid:     "paid",
		PaymentFailed:   "failed",
		PaymentRefunded: "refunded",
	}
}

// String returns the snake_case status name.
func (s PaymentStatus) String() string {
	if str, ok := paymentStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate rejects PaymentStatusUnknown and out-of-band values.
func (s PaymentStatus) Validate() error {
	if _, ok := paymentStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("payment status",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// ParsePaymentStatus converts a snake_case status name to its value.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, name := range paymentStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return PaymentStatusUnknown, errs.NewValueIsInvalidErrorWithCause("payment status",
		fmt.Errorf("%q is not a valid payment status", s))
}
