package port

import (
	"context"

	"github.com/iqpremium/iqpay/internal/core/domain"
)

//go:generate mockgen -source=gateway.go -destination=mock/gateway.go -package=mock
type PaymentGateway interface {
	CreatePixCharge(ctx context.Context, req domain.PixChargeRequest) (*domain.PixCharge, error)
	CreateCheckoutPreference(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error)
	GetPayment(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error)
}
