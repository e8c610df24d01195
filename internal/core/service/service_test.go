package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/govalues/decimal"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port/mock"
	"github.com/iqpremium/iqpay/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var defaults = service.Defaults{
	PixAmount:      decimal.MustParse("3.99"),
	CheckoutAmount: decimal.MustParse("4.99"),
	Description:    "Resultado Teste de QI Premium",
	PayerEmail:     "cliente@teste.com",
	SuccessURL:     "https://front.example/teste.html",
	FailureURL:     "https://front.example/resultado.html",
	PendingURL:     "https://front.example/resultado.html",
}

type prepareMocks func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway)

func fixedRef(ref string) service.Option {
	return service.WithReferenceFunc(func() string { return ref })
}

func intPtr(i int) *int {
	return &i
}

// applyUpdate runs the update function against order the way the store does.
func applyUpdate(order domain.Order) func(context.Context, string, func(*domain.Order) error) (*domain.Order, error) {
	return func(_ context.Context, _ string, fn func(*domain.Order) error) (*domain.Order, error) {
		o := order
		if err := fn(&o); err != nil {
			return nil, err
		}
		return &o, nil
	}
}

func TestService_CreatePixCharge(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger := zap.NewNop()

	charge := &domain.PixCharge{
		GatewayPaymentID: "123",
		QRCode:           "000201",
		QRCodeBase64:     "iVBOR",
		Status:           domain.PaymentStatusPending,
	}
	gwErr := &domain.GatewayError{Op: "create pix charge", StatusCode: 400, Message: "invalid payer"}

	type createPixTest struct {
		name      string
		req       domain.PixChargeRequest
		mock      prepareMocks
		expError  error
		expResult *domain.PixCharge
	}

	tests := []createPixTest{
		{
			name: "defaults applied",
			req:  domain.PixChargeRequest{},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), &domain.Order{
					Reference:    "ref-1",
					Status:       domain.PaymentStatusPending,
					CorrectCount: 21,
					TotalCount:   42,
				}).Return(&domain.Order{Reference: "ref-1"}, nil)
				gateway.EXPECT().CreatePixCharge(gomock.Any(), domain.PixChargeRequest{
					Reference:   "ref-1",
					Amount:      defaults.PixAmount,
					Description: defaults.Description,
					PayerEmail:  defaults.PayerEmail,
				}).Return(charge, nil)
				repo.EXPECT().UpdateOrder(gomock.Any(), "ref-1", gomock.Any()).
					DoAndReturn(applyUpdate(domain.Order{Reference: "ref-1", Status: domain.PaymentStatusPending}))
			},
			expResult: &domain.PixCharge{
				Reference:        "ref-1",
				GatewayPaymentID: "123",
				QRCode:           "000201",
				QRCodeBase64:     "iVBOR",
				Status:           domain.PaymentStatusPending,
			},
		},
		{
			name: "tallies recorded",
			req: domain.PixChargeRequest{
				Amount:  decimal.MustParse("9.90"),
				Correct: intPtr(0),
				Total:   intPtr(30),
			},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), &domain.Order{
					Reference:    "ref-1",
					Status:       domain.PaymentStatusPending,
					CorrectCount: 0,
					TotalCount:   30,
				}).Return(&domain.Order{Reference: "ref-1"}, nil)
				gateway.EXPECT().CreatePixCharge(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req domain.PixChargeRequest) (*domain.PixCharge, error) {
						assert.Equal(t, decimal.MustParse("9.90"), req.Amount)
						c := *charge
						return &c, nil
					})
				repo.EXPECT().UpdateOrder(gomock.Any(), "ref-1", gomock.Any()).
					DoAndReturn(applyUpdate(domain.Order{Reference: "ref-1"}))
			},
			expResult: &domain.PixCharge{
				Reference:        "ref-1",
				GatewayPaymentID: "123",
				QRCode:           "000201",
				QRCodeBase64:     "iVBOR",
				Status:           domain.PaymentStatusPending,
			},
		},
		{
			name:     "bad tallies",
			req:      domain.PixChargeRequest{Correct: intPtr(50), Total: intPtr(42)},
			mock:     func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {},
			expError: domain.ErrBadRequest,
		},
		{
			name:     "negative amount",
			req:      domain.PixChargeRequest{Amount: decimal.MustParse("-1")},
			mock:     func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {},
			expError: domain.ErrBadRequest,
		},
		{
			name: "gateway failure",
			req:  domain.PixChargeRequest{},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(&domain.Order{Reference: "ref-1"}, nil)
				gateway.EXPECT().CreatePixCharge(gomock.Any(), gomock.Any()).Return(nil, gwErr)
			},
			expError: domain.ErrGateway,
		},
		{
			name: "duplicate reference",
			req:  domain.PixChargeRequest{Reference: "taken"},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(nil, domain.ErrConflictingData)
			},
			expError: domain.ErrConflictingData,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockOrderRepository(mockCtrl)
			gateway := mock.NewMockPaymentGateway(mockCtrl)
			test.mock(repo, gateway)

			s, err := service.NewService(repo, gateway, defaults, logger, fixedRef("ref-1"))
			require.NoError(t, err)

			result, err := s.CreatePixCharge(context.Background(), test.req)
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expResult, result)
		})
	}
}

func TestService_CreateCheckout(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger := zap.NewNop()

	tests := []struct {
		name      string
		req       domain.CheckoutRequest
		mock      prepareMocks
		expError  error
		expResult *domain.Checkout
	}{
		{
			name: "generated reference",
			req:  domain.CheckoutRequest{},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), &domain.Order{
					Reference:    "ref-1",
					Status:       domain.PaymentStatusPending,
					CorrectCount: 21,
					TotalCount:   42,
				}).Return(&domain.Order{Reference: "ref-1"}, nil)
				gateway.EXPECT().CreateCheckoutPreference(gomock.Any(), domain.CheckoutRequest{
					Reference:  "ref-1",
					Title:      defaults.Description,
					UnitPrice:  defaults.CheckoutAmount,
					SuccessURL: defaults.SuccessURL,
					FailureURL: defaults.FailureURL,
					PendingURL: defaults.PendingURL,
				}).Return(&domain.Checkout{PreferenceID: "pref-1", RedirectURL: "https://mp.example/init"}, nil)
			},
			expResult: &domain.Checkout{Reference: "ref-1", PreferenceID: "pref-1", RedirectURL: "https://mp.example/init"},
		},
		{
			name: "caller reference",
			req:  domain.CheckoutRequest{Reference: "qi_test_1700000000000"},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
					Return(&domain.Order{Reference: "qi_test_1700000000000"}, nil)
				gateway.EXPECT().CreateCheckoutPreference(gomock.Any(), gomock.Any()).
					Return(&domain.Checkout{RedirectURL: "https://mp.example/init"}, nil)
			},
			expResult: &domain.Checkout{Reference: "qi_test_1700000000000", RedirectURL: "https://mp.example/init"},
		},
		{
			name: "gateway failure",
			req:  domain.CheckoutRequest{},
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				repo.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Return(&domain.Order{Reference: "ref-1"}, nil)
				gateway.EXPECT().CreateCheckoutPreference(gomock.Any(), gomock.Any()).
					Return(nil, &domain.GatewayError{Op: "create checkout preference", Message: "unauthorized"})
			},
			expError: domain.ErrGateway,
		},
		{
			name:     "bad total",
			req:      domain.CheckoutRequest{Total: intPtr(0)},
			mock:     func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {},
			expError: domain.ErrBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockOrderRepository(mockCtrl)
			gateway := mock.NewMockPaymentGateway(mockCtrl)
			test.mock(repo, gateway)

			s, err := service.NewService(repo, gateway, defaults, logger, fixedRef("ref-1"))
			require.NoError(t, err)

			result, err := s.CreateCheckout(context.Background(), test.req)
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expResult, result)
		})
	}
}

func TestService_ReconcilePayment(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	logger := zap.NewNop()
	gwErr := &domain.GatewayError{Op: "get payment", StatusCode: 404, Message: "Payment not found"}

	tests := []struct {
		name     string
		mock     prepareMocks
		expError error
	}{
		{
			name: "approved",
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				gateway.EXPECT().GetPayment(gomock.Any(), "42").Return(&domain.Payment{
					GatewayPaymentID: "42", Reference: "ref-1", Status: domain.PaymentStatusApproved,
				}, nil)
				repo.EXPECT().UpdateOrder(gomock.Any(), "ref-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, fn func(*domain.Order) error) (*domain.Order, error) {
						o := domain.Order{Reference: "ref-1", Status: domain.PaymentStatusPending, CorrectCount: 30, TotalCount: 42}
						require.NoError(t, fn(&o))
						assert.Equal(t, domain.PaymentStatusApproved, o.Status)
						assert.Equal(t, "42", o.GatewayPaymentID)
						assert.Equal(t, 30, o.CorrectCount)
						assert.Equal(t, 42, o.TotalCount)
						return &o, nil
					})
			},
		},
		{
			name: "gateway failure",
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				gateway.EXPECT().GetPayment(gomock.Any(), "42").Return(nil, gwErr)
			},
			expError: domain.ErrGateway,
		},
		{
			name: "no reference",
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				gateway.EXPECT().GetPayment(gomock.Any(), "42").Return(&domain.Payment{
					GatewayPaymentID: "42", Status: domain.PaymentStatusApproved,
				}, nil)
			},
		},
		{
			name: "unknown reference",
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				gateway.EXPECT().GetPayment(gomock.Any(), "42").Return(&domain.Payment{
					GatewayPaymentID: "42", Reference: "other", Status: domain.PaymentStatusApproved,
				}, nil)
				repo.EXPECT().UpdateOrder(gomock.Any(), "other", gomock.Any()).Return(nil, domain.ErrDataNotFound)
			},
		},
		{
			name: "store failure",
			mock: func(repo *mock.MockOrderRepository, gateway *mock.MockPaymentGateway) {
				gateway.EXPECT().GetPayment(gomock.Any(), "42").Return(&domain.Payment{
					GatewayPaymentID: "42", Reference: "ref-1", Status: domain.PaymentStatusApproved,
				}, nil)
				repo.EXPECT().UpdateOrder(gomock.Any(), "ref-1", gomock.Any()).Return(nil, domain.ErrInternal)
			},
			expError: domain.ErrInternal,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockOrderRepository(mockCtrl)
			gateway := mock.NewMockPaymentGateway(mockCtrl)
			test.mock(repo, gateway)

			s, err := service.NewService(repo, gateway, defaults, logger)
			require.NoError(t, err)

			err = s.ReconcilePayment(context.Background(), "42")
			if test.expError != nil {
				assert.ErrorIs(t, err, test.expError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_PaymentStatus(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	repo := mock.NewMockOrderRepository(mockCtrl)
	gateway := mock.NewMockPaymentGateway(mockCtrl)

	payment := &domain.Payment{GatewayPaymentID: "42", Reference: "ref-1", Status: domain.PaymentStatusRejected}
	gateway.EXPECT().GetPayment(gomock.Any(), "42").Return(payment, nil)
	repo.EXPECT().UpdateOrder(gomock.Any(), "ref-1", gomock.Any()).
		DoAndReturn(applyUpdate(domain.Order{Reference: "ref-1", Status: domain.PaymentStatusPending}))

	s, err := service.NewService(repo, gateway, defaults, zap.NewNop())
	require.NoError(t, err)

	result, err := s.PaymentStatus(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, payment, result)

	gateway.EXPECT().GetPayment(gomock.Any(), "7").Return(nil, &domain.GatewayError{Op: "get payment", Message: "boom"})
	_, err = s.PaymentStatus(context.Background(), "7")
	assert.ErrorIs(t, err, domain.ErrGateway)

	gateway.EXPECT().GetPayment(gomock.Any(), "8").Return(&domain.Payment{
		GatewayPaymentID: "8", Reference: "gone", Status: domain.PaymentStatusApproved,
	}, nil)
	repo.EXPECT().UpdateOrder(gomock.Any(), "gone", gomock.Any()).Return(nil, domain.ErrDataNotFound)
	result, err = s.PaymentStatus(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusApproved, result.Status)
}

func TestService_GetResult(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	tests := []struct {
		name      string
		order     *domain.Order
		readErr   error
		expError  error
		expResult *domain.Result
	}{
		{
			name:      "approved",
			order:     &domain.Order{Reference: "ref-1", Status: domain.PaymentStatusApproved, CorrectCount: 42, TotalCount: 42},
			expResult: &domain.Result{Score: 142, Label: "Genius"},
		},
		{
			name:      "approved without tallies",
			order:     &domain.Order{Reference: "ref-1", Status: domain.PaymentStatusApproved},
			expResult: &domain.Result{Score: 100, Label: "Average"},
		},
		{
			name:     "pending",
			order:    &domain.Order{Reference: "ref-1", Status: domain.PaymentStatusPending},
			expError: domain.ErrPaymentNotApproved,
		},
		{
			name:     "rejected",
			order:    &domain.Order{Reference: "ref-1", Status: domain.PaymentStatusRejected},
			expError: domain.ErrPaymentNotApproved,
		},
		{
			name:     "status the gateway added later",
			order:    &domain.Order{Reference: "ref-1", Status: "in_mediation"},
			expError: domain.ErrPaymentNotApproved,
		},
		{
			name:     "not found",
			readErr:  domain.ErrDataNotFound,
			expError: domain.ErrDataNotFound,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			repo := mock.NewMockOrderRepository(mockCtrl)
			gateway := mock.NewMockPaymentGateway(mockCtrl)
			repo.EXPECT().ReadOrder(gomock.Any(), "ref-1").Return(test.order, test.readErr)

			s, err := service.NewService(repo, gateway, defaults, zap.NewNop())
			require.NoError(t, err)

			result, err := s.GetResult(context.Background(), "ref-1")
			if test.expError != nil {
				assert.True(t, errors.Is(err, test.expError), "got %v", err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expResult, result)
		})
	}
}

func TestNewService_BadDefaults(t *testing.T) {
	_, err := service.NewService(nil, nil, service.Defaults{}, zap.NewNop())
	assert.Error(t, err)
}
