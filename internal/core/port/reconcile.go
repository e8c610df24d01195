package port

import "context"

// RecheckScheduler queues a gateway payment for another reconciliation
// attempt later.
//
//go:generate mockgen -source=reconcile.go -destination=mock/reconcile.go -package=mock
type RecheckScheduler interface {
	ScheduleRecheck(gatewayPaymentID string)
}

type PaymentReconciler interface {
	ReconcilePayment(ctx context.Context, gatewayPaymentID string) error
}
