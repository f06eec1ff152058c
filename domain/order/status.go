package order

import "strings"

// Status is the fulfilment state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusClosed    Status = "closed"
	StatusCancelled Status = "cancelled"
)

var statusTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {StatusClosed},
	StatusClosed:    nil,
	StatusCancelled: nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusTransitions[st]; !ok {
		return "", NewUnknownStatusError("status", s)
	}
	return st, nil
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// PaymentStatus tracks settlement. Payments are processed outside this system;
// only the recorded state is kept here.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentFailed:    {PaymentPending},
	PaymentCompleted: {PaymentRefunded},
	PaymentRefunded:  nil,
}

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := paymentTransitions[st]; !ok {
		return "", NewUnknownStatusError("payment_status", s)
	}
	return st, nil
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentMethodCash is used when an order does not name a payment method.
const PaymentMethodCash = "cash"
