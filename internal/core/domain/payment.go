package domain

import "github.com/govalues/decimal"

const Currency = "BRL"

// PixChargeRequest carries what the client sends to start a PIX payment.
// Zero values are replaced by configured defaults.
type PixChargeRequest struct {
	Reference   string
	Amount      decimal.Decimal
	Description string
	PayerEmail  string
	Correct     *int
	Total       *int
}

type PixCharge struct {
	Reference        string
	GatewayPaymentID string
	QRCode           string
	QRCodeBase64     string
	Status           PaymentStatus
}

// CheckoutRequest starts a hosted card/boleto checkout.
type CheckoutRequest struct {
	Reference  string
	Title      string
	UnitPrice  decimal.Decimal
	SuccessURL string
	FailureURL string
	PendingURL string
	Correct    *int
	Total      *int
}

type Checkout struct {
	Reference    string
	PreferenceID string
	RedirectURL  string
}

// Payment is the part of a gateway payment the core cares about.
type Payment struct {
	GatewayPaymentID string
	Reference        string
	Status           PaymentStatus
}
