package port

import (
	"context"

	"github.com/iqpremium/iqpay/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, reference string) (*domain.Order, error)
	UpdateOrder(ctx context.Context, reference string, updateFn UpdateOrderFn) (*domain.Order, error)
}

// UpdateOrderFn mutates a copy of the stored order. Returning an error
// leaves the stored order untouched.
type UpdateOrderFn func(*domain.Order) error
