package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iqpremium/iqpay/internal/core/domain"
	"go.uber.org/zap"
)

// ReconcilePayment applies a webhook notification for a gateway payment.
// The gateway is queried before any order is locked. Payments without a
// reference or for an unknown reference are dropped without error.
func (s *Service) ReconcilePayment(ctx context.Context, gatewayPaymentID string) error {
	payment, err := s.gateway.GetPayment(ctx, gatewayPaymentID)
	if err != nil {
		return fmt.Errorf("fetch payment %s: %w", gatewayPaymentID, err)
	}

	if payment.Reference == "" {
		s.logger.Info("Payment has no reference, skipping", zap.String("payment_id", gatewayPaymentID))
		return nil
	}

	order, err := s.updateStatus(ctx, payment)
	if err != nil {
		if errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Info("Payment for unknown order discarded",
				zap.String("payment_id", gatewayPaymentID),
				zap.String("reference", payment.Reference))
			return nil
		}
		return fmt.Errorf("update order %s: %w", payment.Reference, err)
	}

	s.logger.Info("Order status reconciled",
		zap.String("reference", order.Reference),
		zap.String("payment_id", order.GatewayPaymentID),
		zap.String("status", string(order.Status)))

	return nil
}
