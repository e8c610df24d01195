package port

import (
	"context"

	"github.com/iqpremium/iqpay/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	CreatePixCharge(ctx context.Context, req domain.PixChargeRequest) (*domain.PixCharge, error)
	CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error)
	PaymentStatus(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error)
	ReconcilePayment(ctx context.Context, gatewayPaymentID string) error
	GetResult(ctx context.Context, reference string) (*domain.Result, error)
}
