package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port"
	"github.com/iqpremium/iqpay/internal/core/score"
	"go.uber.org/zap"
)

// Defaults fill in whatever the client leaves out of a charge request.
type Defaults struct {
	PixAmount      decimal.Decimal
	CheckoutAmount decimal.Decimal
	Description    string
	PayerEmail     string
	SuccessURL     string
	FailureURL     string
	PendingURL     string
}

type Service struct {
	repo     port.OrderRepository
	gateway  port.PaymentGateway
	defaults Defaults
	newRef   func() string
	logger   *zap.Logger
}

type Option func(*Service)

func WithReferenceFunc(fn func() string) Option {
	return func(s *Service) {
		s.newRef = fn
	}
}

func NewService(repo port.OrderRepository, gateway port.PaymentGateway,
	defaults Defaults, logger *zap.Logger, opts ...Option) (*Service, error) {
	if !defaults.PixAmount.IsPos() || !defaults.CheckoutAmount.IsPos() {
		return nil, errors.New("default charge amounts must be positive")
	}

	s := &Service{
		repo:     repo,
		gateway:  gateway,
		defaults: defaults,
		newRef:   uuid.NewString,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) CreatePixCharge(ctx context.Context, req domain.PixChargeRequest) (*domain.PixCharge, error) {
	correct, total, err := resolveTallies(req.Correct, req.Total)
	if err != nil {
		return nil, err
	}

	if req.Amount.IsNeg() {
		return nil, fmt.Errorf("amount %s: %w", req.Amount, domain.ErrBadRequest)
	}
	if req.Amount.IsZero() {
		req.Amount = s.defaults.PixAmount
	}
	if req.Description == "" {
		req.Description = s.defaults.Description
	}
	if req.PayerEmail == "" {
		req.PayerEmail = s.defaults.PayerEmail
	}
	if req.Reference == "" {
		req.Reference = s.newRef()
	}

	// the order exists before the charge so an early webhook can find it
	_, err = s.repo.CreateOrder(ctx, &domain.Order{
		Reference:    req.Reference,
		Status:       domain.PaymentStatusPending,
		CorrectCount: correct,
		TotalCount:   total,
	})
	if err != nil {
		return nil, err
	}

	charge, err := s.gateway.CreatePixCharge(ctx, req)
	if err != nil {
		s.logger.Error("Create pix charge", zap.String("reference", req.Reference), zap.Error(err))
		return nil, err
	}
	charge.Reference = req.Reference

	s.attachPayment(ctx, req.Reference, charge.GatewayPaymentID, charge.Status)

	return charge, nil
}

func (s *Service) CreateCheckout(ctx context.Context, req domain.CheckoutRequest) (*domain.Checkout, error) {
	correct, total, err := resolveTallies(req.Correct, req.Total)
	if err != nil {
		return nil, err
	}

	if req.UnitPrice.IsNeg() {
		return nil, fmt.Errorf("unit price %s: %w", req.UnitPrice, domain.ErrBadRequest)
	}
	if req.UnitPrice.IsZero() {
		req.UnitPrice = s.defaults.CheckoutAmount
	}
	if req.Title == "" {
		req.Title = s.defaults.Description
	}
	if req.SuccessURL == "" {
		req.SuccessURL = s.defaults.SuccessURL
	}
	if req.FailureURL == "" {
		req.FailureURL = s.defaults.FailureURL
	}
	if req.PendingURL == "" {
		req.PendingURL = s.defaults.PendingURL
	}
	if req.Reference == "" {
		req.Reference = s.newRef()
	}

	_, err = s.repo.CreateOrder(ctx, &domain.Order{
		Reference:    req.Reference,
		Status:       domain.PaymentStatusPending,
		CorrectCount: correct,
		TotalCount:   total,
	})
	if err != nil {
		return nil, err
	}

	checkout, err := s.gateway.CreateCheckoutPreference(ctx, req)
	if err != nil {
		s.logger.Error("Create checkout preference", zap.String("reference", req.Reference), zap.Error(err))
		return nil, err
	}
	checkout.Reference = req.Reference

	return checkout, nil
}

// PaymentStatus asks the gateway for the payment and writes the status
// through to the matching order when there is one.
func (s *Service) PaymentStatus(ctx context.Context, gatewayPaymentID string) (*domain.Payment, error) {
	payment, err := s.gateway.GetPayment(ctx, gatewayPaymentID)
	if err != nil {
		return nil, err
	}

	if payment.Reference != "" {
		_, err = s.updateStatus(ctx, payment)
		if err != nil && !errors.Is(err, domain.ErrDataNotFound) {
			s.logger.Error("Update order status", zap.String("reference", payment.Reference), zap.Error(err))
			return nil, err
		}
	}

	return payment, nil
}

func (s *Service) GetResult(ctx context.Context, reference string) (*domain.Result, error) {
	order, err := s.repo.ReadOrder(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !order.Status.IsApproved() {
		return nil, domain.ErrPaymentNotApproved
	}

	result, err := score.ForOrder(order)
	if err != nil {
		s.logger.Error("Compute result", zap.String("reference", reference), zap.Error(err))
		return nil, domain.ErrInternal
	}

	return &result, nil
}

// attachPayment records the gateway id on a fresh order. The status only
// moves if nothing else has changed it since creation.
func (s *Service) attachPayment(ctx context.Context, reference, gatewayPaymentID string, status domain.PaymentStatus) {
	_, err := s.repo.UpdateOrder(ctx, reference, func(o *domain.Order) error {
		if o.GatewayPaymentID == "" {
			o.GatewayPaymentID = gatewayPaymentID
		}
		if o.Status == domain.PaymentStatusPending && status != "" {
			o.Status = status
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Attach payment to order",
			zap.String("reference", reference),
			zap.String("payment_id", gatewayPaymentID),
			zap.Error(err))
	}
}

func (s *Service) updateStatus(ctx context.Context, payment *domain.Payment) (*domain.Order, error) {
	status := payment.Status
	if status == "" {
		status = domain.PaymentStatusUnknown
	}

	return s.repo.UpdateOrder(ctx, payment.Reference, func(o *domain.Order) error {
		if payment.GatewayPaymentID != "" {
			o.GatewayPaymentID = payment.GatewayPaymentID
		}
		o.Status = status
		return nil
	})
}

func resolveTallies(correct, total *int) (int, int, error) {
	c, t := score.DefaultCorrect, score.DefaultTotal
	if correct != nil {
		c = *correct
	}
	if total != nil {
		t = *total
	}
	if t <= 0 || c < 0 || c > t {
		return 0, 0, fmt.Errorf("tallies %d/%d: %w", c, t, domain.ErrBadRequest)
	}
	return c, t, nil
}
