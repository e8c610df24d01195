package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port"
	"go.uber.org/zap"
)

const maxNotificationSize = 64 << 10

type WebhookHandler struct {
	Handler
	reconciler port.PaymentReconciler
	rechecks   port.RecheckScheduler
}

func NewWebhookHandler(reconciler port.PaymentReconciler, rechecks port.RecheckScheduler,
	logger *zap.Logger) (*WebhookHandler, error) {
	if reconciler == nil {
		return nil, errors.New("webhook handler needs a reconciler")
	}
	return &WebhookHandler{
		Handler:    *NewHandler(logger),
		reconciler: reconciler,
		rechecks:   rechecks,
	}, nil
}

// Notify godoc
//
//	@Summary	Receive a gateway payment notification
//	@Accept		json
//	@Success	200
//	@Failure	500
//	@Router		/webhook [post]
func (wh *WebhookHandler) Notify(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxNotificationSize)
	body, err := ctx.GetRawData()
	if err != nil {
		wh.logger.Warn("reading notification body", zap.Error(err))
	}

	n, ok := extractPaymentID(body, ctx.Request.URL.Query())
	if !ok {
		wh.logger.Info("unrecognized notification payload",
			zap.String("topic", n.Topic),
			zap.ByteString("body", body))
		ctx.Status(http.StatusOK)
		return
	}
	if !n.isPayment() {
		wh.logger.Debug("skipping notification", zap.String("topic", n.Topic), zap.String("id", n.PaymentID))
		ctx.Status(http.StatusOK)
		return
	}

	wh.logger.Info("payment notification",
		zap.String("paymentID", n.PaymentID),
		zap.String("source", n.Source))

	err = wh.reconciler.ReconcilePayment(ctx, n.PaymentID)
	switch {
	case err == nil:
	case domain.IsTemporaryGatewayError(err) && wh.rechecks != nil:
		wh.logger.Warn("reconciliation deferred", zap.String("paymentID", n.PaymentID), zap.Error(err))
		wh.rechecks.ScheduleRecheck(n.PaymentID)
	case errors.Is(err, domain.ErrGateway):
		wh.logger.Warn("payment rejected by gateway", zap.String("paymentID", n.PaymentID), zap.Error(err))
	default:
		wh.logger.Error("reconciliation failed", zap.String("paymentID", n.PaymentID), zap.Error(err))
	}

	ctx.Status(http.StatusOK)
}
