package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	Handler
	service port.Service
}

func NewPaymentHandler(service port.Service, logger *zap.Logger) (*PaymentHandler, error) {
	return &PaymentHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type statusResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"orderId"`
}

// PaymentStatus godoc
//
//	@Summary	Poll the gateway for a payment status
//	@Produce	json
//	@Param		id	path		string	true	"gateway payment id"
//	@Success	200	{object}	statusResponse
//	@Failure	400	{object}	errorResponse
//	@Router		/payment-status/{id} [get]
func (ph *PaymentHandler) PaymentStatus(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		ph.handleValidationError(ctx, domain.ErrBadRequest)
		return
	}

	payment, err := ph.service.PaymentStatus(ctx, id)
	if err != nil {
		ph.handleErrorWithStatus(ctx, err, http.StatusBadRequest)
		return
	}

	ph.handleSuccess(ctx, statusResponse{
		Status:  string(payment.Status),
		OrderID: payment.Reference,
	})
}

type resultResponse struct {
	Result domain.Result `json:"result"`
}

// Result godoc
//
//	@Summary	Release the IQ score of a paid order
//	@Produce	json
//	@Param		orderId	path		string	true	"order reference"
//	@Success	200		{object}	resultResponse
//	@Failure	402		{object}	errorResponse
//	@Failure	404		{object}	errorResponse
//	@Router		/result/{orderId} [get]
func (ph *PaymentHandler) Result(ctx *gin.Context) {
	reference := ctx.Param("orderId")

	result, err := ph.service.GetResult(ctx, reference)
	if err != nil {
		ph.handleError(ctx, err)
		return
	}

	ph.handleSuccess(ctx, resultResponse{Result: *result})
}
