package services

import (
	"context"

	"example.com/orderflow/internal/events"
	"example.com/orderflow/internal/messaging"
	"example.com/orderflow/internal/models"
	"example.com/orderflow/internal/repositories"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// OrderService handles order intake
type OrderService struct {
	orderRepo repositories.OrderRepository
	publisher messaging.Publisher
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo repositories.OrderRepository, publisher messaging.Publisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// CreateOrder persists a new order and publishes an OrderCreatedEvent. The
// order row is kept even when the publish fails; the caller sees the error
// and the row stays Pending for inspection.
func (s *OrderService) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.Status = models.OrderStatusPending

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	log.Info().
		Uint("order_id", order.ID).
		Str("product", order.Product).
		Float64("amount", order.Amount).
		Msg("Order created")

	evt := &events.OrderCreatedEvent{
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		Product:       order.Product,
		Amount:        order.Amount,
		CreatedAt:     order.CreatedAt,
	}

	body, err := events.Marshal(evt)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, messaging.OrderExchange, messaging.OrderCreatedKey, body, nil); err != nil {
		return nil, errors.Wrapf(err, "order %d persisted but event not published", order.ID)
	}

	log.Info().Uint("order_id", order.ID).Msg("OrderCreatedEvent published")
	return order, nil
}

// GetOrder retrieves an order by id
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// ListOrders retrieves all orders, newest first
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orderRepo.List(ctx)
}
