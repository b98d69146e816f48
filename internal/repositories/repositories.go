package repositories

import (
	"context"
	"time"

	"example.com/orderflow/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// OrderRepository provides access to order data
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
}

// PaymentRepository provides access to payment data
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	GetByOrderID(ctx context.Context, orderID uint) (*models.Payment, error)
	List(ctx context.Context) ([]models.Payment, error)
	ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]models.Payment, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return errors.Wrap(err, "failed to create order")
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to get order %d", id)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return errors.Wrapf(err, "failed to create payment for order %d", payment.OrderID)
	}
	return nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return errors.Wrapf(err, "failed to update payment for order %d", payment.OrderID)
	}
	return nil
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		return nil, errors.Wrapf(err, "failed to get payment for order %d", orderID)
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).Order("processed_at DESC").Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list payments")
	}
	return payments, nil
}

// ListStaleProcessing returns payments stuck in Processing since before the
// given cutoff. These mark messages that were dead-lettered mid-flight.
func (r *paymentRepository) ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.PaymentStatusProcessing, olderThan).
		Find(&payments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stale processing payments")
	}
	return payments, nil
}
