package messaging

import (
	"context"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Delivery is a single in-flight message handed to a worker. Ack removes it
// permanently; Reject with requeue returns it to the queue for redelivery;
// Reject without requeue dead-letters it.
type Delivery interface {
	Body() []byte
	RetryCount() int
	Ack() error
	Reject(requeue bool) error
}

// DeliveryHandler processes one delivery. The handler owns the ack/reject
// decision; a returned error is for logging only.
type DeliveryHandler func(ctx context.Context, d Delivery) error

type amqpDelivery struct {
	d amqp.Delivery
}

func (a *amqpDelivery) Body() []byte { return a.d.Body }

func (a *amqpDelivery) RetryCount() int { return RetryCountFromHeaders(a.d.Headers) }

func (a *amqpDelivery) Ack() error { return a.d.Ack(false) }

func (a *amqpDelivery) Reject(requeue bool) error { return a.d.Nack(false, requeue) }

// RetryCountFromHeaders extracts the retry counter from message headers.
// AMQP clients deliver header integers in varying widths, so coercion is
// tolerant; anything unrecognized counts as a first delivery.
func RetryCountFromHeaders(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	v, ok := headers[RetryCountHeader]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Consume starts a long-lived consumer loop on the given queue with a
// prefetch of one unacknowledged message, so processing within this consumer
// is strictly sequential. Blocks until the context is cancelled or the
// delivery channel closes.
func (c *Connection) Consume(ctx context.Context, queue string, handler DeliveryHandler) error {
	// QoS 1 is the system's only concurrency throttle
	if err := c.channel.Qos(1, 0, false); err != nil {
		return errors.Wrap(err, "failed to set QoS")
	}

	deliveries, err := c.channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to consume from %s", queue)
	}

	log.Info().Str("queue", queue).Msg("Consumer started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("queue", queue).Msg("Consumer stopping")
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.Errorf("delivery channel for %s closed", queue)
			}
			if err := handler(ctx, &amqpDelivery{d: d}); err != nil {
				log.Error().Err(err).Str("queue", queue).Msg("Failed to process delivery")
			}
		}
	}
}
