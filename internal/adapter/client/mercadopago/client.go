// Package mercadopago is the payment gateway adapter for the Mercado Pago
// REST API.
package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iqpremium/iqpay/internal/adapter/config"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"go.uber.org/zap"
)

const (
	opCreatePix        = "create pix charge"
	opCreatePreference = "create checkout preference"
	opGetPayment       = "get payment"

	maxErrorBody = 4 << 10
)

type Client struct {
	logger          *zap.Logger
	httpClient      *http.Client
	baseURL         string
	token           string
	timeout         time.Duration
	notificationURL string
	idempotencyKey  func() string
}

func NewClient(cfg *config.Gateway, links *config.Links, log *zap.Logger) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, errors.New("gateway access token is empty")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("gateway base url: %w", err)
	}

	return &Client{
		logger:          log,
		httpClient:      &http.Client{Timeout: cfg.Timeout},
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		token:           cfg.AccessToken,
		timeout:         cfg.Timeout,
		notificationURL: links.NotificationURL(),
		idempotencyKey:  uuid.NewString,
	}, nil
}

type payer struct {
	Email string `json:"email"`
}

type paymentRequest struct {
	TransactionAmount float64 `json:"transaction_amount"`
	Description       string  `json:"description"`
	PaymentMethodID   string  `json:"payment_method_id"`
	Payer             payer   `json:"payer"`
	ExternalReference string  `json:"external_reference,omitempty"`
	NotificationURL   string  `json:"notification_url,omitempty"`
}

type paymentResponse struct {
	ID                 int64  `json:"id"`
	Status             string `json:"status"`
	StatusDetail       string `json:"status_detail"`
	ExternalReference  string `json:"external_reference"`
	PointOfInteraction struct {
		TransactionData struct {
			QRCode       string `json:"qr_code"`
			QRCodeBase64 string `json:"qr_code_base64"`
		} `json:"transaction_data"`
	} `json:"point_of_interaction"`
}

type preferenceItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	CurrencyID string  `json:"currency_id"`
	UnitPrice  float64 `json:"unit_price"`
}

type backURLs struct {
	Success string `json:"success,omitempty"`
	Failure string `json:"failure,omitempty"`
	Pending string `json:"pending,omitempty"`
}

type preferenceRequest struct {
	Items             []preferenceItem `json:"items"`
	BackURLs          backURLs         `json:"back_urls"`
	AutoReturn        string           `json:"auto_return,omitempty"`
	ExternalReference string           `json:"external_reference,omitempty"`
	NotificationURL   string           `json:"notification_url,omitempty"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) CreatePixCharge(ctx context.Context, req domain.PixChargeRequest) (*domain.PixCharge, error) {
	amount, ok := req.Amount.Float64()
	if !ok || amount <= 0 {
		return nil, &domain.GatewayError{Op: opCreatePix, Message: "invalid transaction amount " + req.Amount.String()}
	}

	body := paymentRequest{
		TransactionAmount: amount,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		Payer:             payer{Email: req.PayerEmail},
		ExternalReference: req.Reference,
		NotificationURL:   c.notificationURL,
	}

	var resp paymentResponse
	if err := c.do(ctx, opCreatePix, http.MethodPost, "/v1/payments", body, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("pix charge created",
		zap.String("reference", req.Reference),
		zap.Int64("payment_id", resp.ID),
		zap.String("status", resp.Status))

	return &domain.PixCharge{
		Reference:        req.Reference,
		GatewayPaymentID: strconv.FormatInt(resp.ID, 10),
		QRCode:           resp.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64:     resp.PointOfInteraction.TransactionData.QRCodeBase64,
		Status:           domain.PaymentStatus(resp.Status),
	}, nil
}

func (c *Client) CreateCheckoutPreference(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	price, ok := req.UnitPrice.Float64()
	if !ok || price <= 0 {
		return nil, &domain.GatewayError{Op: opCreatePreference, Message: "invalid unit price " + req.UnitPrice.String()}
	}

	body := preferenceRequest{
		Items: []preferenceItem{{
			Title:      req.Title,
			Quantity:   1,
			CurrencyID: domain.Currency,
			UnitPrice:  price,
		}},
		BackURLs: backURLs{
			Success: req.SuccessURL,
			Failure: req.FailureURL,
			Pending: req.PendingURL,
		},
		ExternalReference: req.Reference,
		NotificationURL:   c.notificationURL,
	}
	// the gateway refuses auto_return without a success url
	if req.SuccessURL != "" {
		body.AutoReturn = "approved"
	}

	var resp preferenceResponse
	if err := c.do(ctx, opCreatePreference, http.MethodPost, "/checkout/preferences", body, &resp); err != nil {
		return nil, err
	}
	if resp.InitPoint == "" {
		return nil, &domain.GatewayError{Op: opCreatePreference, Message: "response has no init_point"}
	}

	return &domain.Checkout{
		Reference:    req.Reference,
		PreferenceID: resp.ID,
		RedirectURL:  resp.InitPoint,
	}, nil
}

func (c *Client) GetPayment(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	if gatewayPaymentID == "" {
		return nil, &domain.GatewayError{Op: opGetPayment, Message: "empty payment id"}
	}

	var resp paymentResponse
	path := "/v1/payments/" + url.PathEscape(gatewayPaymentID)
	if err := c.do(ctx, opGetPayment, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	status := domain.PaymentStatus(resp.Status)
	if status == "" {
		status = domain.PaymentStatusUnknown
	}

	return &domain.Payment{
		GatewayPaymentID: strconv.FormatInt(resp.ID, 10),
		Reference:        resp.ExternalReference,
		Status:           status,
	}, nil
}

// do sends one request under the configured timeout and decodes a 2xx body
// into out. Every failure is returned as *domain.GatewayError.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader = http.NoBody
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return &domain.GatewayError{Op: op, Message: "encode request", Err: err}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &domain.GatewayError{Op: op, Message: err.Error(), Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Idempotency-Key", c.idempotencyKey())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "request timed out"
		}
		c.logger.Error("gateway request failed", zap.String("op", op), zap.Error(err))
		return &domain.GatewayError{Op: op, Message: msg, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := strings.TrimSpace(string(raw))
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			msg = e.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.logger.Warn("gateway rejected request",
			zap.String("op", op), zap.Int("status", resp.StatusCode), zap.String("message", msg))
		return &domain.GatewayError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.GatewayError{Op: op, Message: "decode response", Err: err}
	}
	return nil
}
