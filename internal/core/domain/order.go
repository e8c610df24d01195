package domain

import (
	"time"
)

// PaymentStatus is the payment state reported by the gateway. It is an open
// set: values the gateway adds later are stored as-is and treated as not
// approved.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusRejected  PaymentStatus = "rejected"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusUnknown   PaymentStatus = "unknown"
)

func (s PaymentStatus) IsApproved() bool {
	return s == PaymentStatusApproved
}

// Order is one purchase attempt to unlock a test result.
type Order struct {
	Reference        string
	GatewayPaymentID string
	Status           PaymentStatus
	CorrectCount     int
	TotalCount       int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasTallies reports whether the quiz tallies were recorded for the order.
func (o *Order) HasTallies() bool {
	return o.TotalCount > 0
}
