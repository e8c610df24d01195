package repository

import (
	"context"

	"github.com/iqpremium/iqpay/internal/adapter/storage"
	"github.com/iqpremium/iqpay/internal/core/domain"
	"github.com/iqpremium/iqpay/internal/core/port"
)

type Repository struct {
	db *storage.DB
}

func NewRepository(db *storage.DB) (*Repository, error) {
	return &Repository{db: db}, nil
}

func (or *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if order.Reference == "" {
		return nil, domain.ErrBadRequest
	}

	var created domain.Order
	err := or.db.Update(func(tx storage.Tx) error {
		if _, ok := tx[order.Reference]; ok {
			return domain.ErrConflictingData
		}

		created = *order
		if created.Status == "" {
			created.Status = domain.PaymentStatusPending
		}
		now := or.db.Now()
		created.CreatedAt = now
		created.UpdatedAt = now

		tx[created.Reference] = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (or *Repository) ReadOrder(ctx context.Context, reference string) (*domain.Order, error) {
	var order domain.Order
	err := or.db.View(func(tx storage.Tx) error {
		o, ok := tx[reference]
		if !ok {
			return domain.ErrDataNotFound
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (or *Repository) UpdateOrder(ctx context.Context, reference string,
	updateFn port.UpdateOrderFn) (*domain.Order, error) {
	var updated domain.Order
	err := or.db.Update(func(tx storage.Tx) error {
		o, ok := tx[reference]
		if !ok {
			return domain.ErrDataNotFound
		}

		if err := updateFn(&o); err != nil {
			return err
		}
		// the key is the identity of the record
		o.Reference = reference
		o.UpdatedAt = or.db.Now()

		tx[reference] = o
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}
