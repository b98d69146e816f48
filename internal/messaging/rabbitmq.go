package messaging

import (
	"example.com/orderflow/config"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Broker topology constants. These are protocol constants shared by all
// participants, not per-deployment configuration.
const (
	OrderExchange   = "order_exchange"
	PaymentExchange = "payment_exchange"

	OrderQueue        = "order_queue"
	NotificationQueue = "notification_queue"

	OrderCreatedKey     = "order.created"
	PaymentCompletedKey = "payment.completed"

	// RetryCountHeader carries the retry counter on republished
	// OrderCreatedEvent messages. Absent means first delivery.
	RetryCountHeader = "x-retry-count"
)

// Connection owns a long-lived AMQP connection and channel pair. It is handed
// to publishers and consumers at construction and released on shutdown.
type Connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Connect dials the broker, opens a channel and declares the full topology.
// Declarations are idempotent; every participant repeats them at startup.
func Connect(cfg config.RabbitMQConfig) (*Connection, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to open channel")
	}

	c := &Connection{conn: conn, channel: channel}
	if err := c.declareTopology(); err != nil {
		_ = c.Close()
		return nil, err
	}

	log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("Connected to RabbitMQ")
	return c, nil
}

// declareTopology establishes the durable messaging shape
func (c *Connection) declareTopology() error {
	for _, exchange := range []string{OrderExchange, PaymentExchange} {
		if err := c.channel.ExchangeDeclare(
			exchange,
			"direct",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		); err != nil {
			return errors.Wrapf(err, "failed to declare exchange %s", exchange)
		}
	}

	bindings := []struct {
		queue      string
		exchange   string
		routingKey string
	}{
		{OrderQueue, OrderExchange, OrderCreatedKey},
		{NotificationQueue, PaymentExchange, PaymentCompletedKey},
	}

	for _, b := range bindings {
		if _, err := c.channel.QueueDeclare(
			b.queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		); err != nil {
			return errors.Wrapf(err, "failed to declare queue %s", b.queue)
		}
		if err := c.channel.QueueBind(b.queue, b.routingKey, b.exchange, false, nil); err != nil {
			return errors.Wrapf(err, "failed to bind queue %s to %s", b.queue, b.exchange)
		}
	}

	return nil
}

// Close releases the channel and connection
func (c *Connection) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close channel")
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
