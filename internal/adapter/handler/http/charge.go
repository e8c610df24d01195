package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port"
	"go.uber.org/zap"
)

type ChargeHandler struct {
	Handler
	service port.Service
}

func NewChargeHandler(service port.Service, logger *zap.Logger) (*ChargeHandler, error) {
	return &ChargeHandler{
		Handler: *NewHandler(logger),
		service: service,
	}, nil
}

type pixRequest struct {
	ExternalReference string      `json:"external_reference"`
	Amount            json.Number `json:"amount"`
	Description       string      `json:"description"`
	Email             string      `json:"email"`
	Correct           *int        `json:"correct"`
	Total             *int        `json:"total"`
}

type pixResponse struct {
	ID           string `json:"id"`
	OrderID      string `json:"orderId"`
	QRCodeBase64 string `json:"qr_code_base64"`
	QRCode       string `json:"qr_code"`
}

// CreatePix godoc
//
//	@Summary	Create a PIX charge for the premium result
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	pixResponse
//	@Failure	400	{object}	errorResponse
//	@Failure	409	{object}	errorResponse
//	@Router		/create-pix [post]
func (ch *ChargeHandler) CreatePix(ctx *gin.Context) {
	req := pixRequest{}
	if err := bindOptionalJSON(ctx, &req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	charge, err := ch.service.CreatePixCharge(ctx, domain.PixChargeRequest{
		Reference:   req.ExternalReference,
		Amount:      amount,
		Description: req.Description,
		PayerEmail:  req.Email,
		Correct:     req.Correct,
		Total:       req.Total,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflictingData) {
			ch.handleError(ctx, err)
			return
		}
		ch.handleErrorWithStatus(ctx, err, http.StatusBadRequest)
		return
	}

	ch.handleSuccess(ctx, pixResponse{
		ID:           charge.GatewayPaymentID,
		OrderID:      charge.Reference,
		QRCodeBase64: charge.QRCodeBase64,
		QRCode:       charge.QRCode,
	})
}

type checkoutRequest struct {
	ExternalReference string      `json:"external_reference"`
	Title             string      `json:"title"`
	Price             json.Number `json:"price"`
	Correct           *int        `json:"correct"`
	Total             *int        `json:"total"`
}

type checkoutResponse struct {
	InitPoint string `json:"init_point"`
	OrderID   string `json:"orderId"`
}

// CreateOrder godoc
//
//	@Summary	Create a hosted checkout preference
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	checkoutResponse
//	@Failure	400	{object}	errorResponse
//	@Failure	409	{object}	errorResponse
//	@Failure	500	{object}	errorResponse
//	@Router		/create-order [post]
func (ch *ChargeHandler) CreateOrder(ctx *gin.Context) {
	req := checkoutRequest{}
	if err := bindOptionalJSON(ctx, &req); err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	price, err := parseAmount(req.Price)
	if err != nil {
		ch.handleValidationError(ctx, err)
		return
	}

	checkout, err := ch.service.CreateCheckout(ctx, domain.CheckoutRequest{
		Reference: req.ExternalReference,
		Title:     req.Title,
		UnitPrice: price,
		Correct:   req.Correct,
		Total:     req.Total,
	})
	if err != nil {
		ch.handleError(ctx, err)
		return
	}

	ch.handleSuccess(ctx, checkoutResponse{
		InitPoint: checkout.RedirectURL,
		OrderID:   checkout.Reference,
	})
}

// bindOptionalJSON binds the body into obj; an empty body leaves obj untouched.
func bindOptionalJSON(ctx *gin.Context, obj any) error {
	if ctx.Request.Body == nil {
		return nil
	}
	err := ctx.ShouldBindBodyWithJSON(obj)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", domain.ErrBadRequest, err)
	}
	return nil
}

// parseAmount turns an optional JSON number into a decimal; zero means
// "use the configured price".
func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.Parse(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid amount %q", domain.ErrBadRequest, n)
	}
	return d, nil
}
