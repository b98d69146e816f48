package messaging

import (
	"context"
	"time"

	"example.com/orderflow/internal/events"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

// Publisher hands domain events to the broker. Publish returns once the
// broker has accepted the message for routing, not once a consumer has
// processed it.
type Publisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body []byte, headers map[string]interface{}) error
}

type amqpPublisher struct {
	channel *amqp.Channel
}

// NewPublisher creates a publisher on an established connection
func NewPublisher(conn *Connection) Publisher {
	return &amqpPublisher{channel: conn.channel}
}

// Publish sends a persistent message to the given exchange and routing key
func (p *amqpPublisher) Publish(ctx context.Context, exchange, routingKey string, body []byte, headers map[string]interface{}) error {
	msg := amqp.Publishing{
		ContentType:  events.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if len(headers) > 0 {
		msg.Headers = amqp.Table(headers)
	}

	if err := p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, msg); err != nil {
		return errors.Wrapf(err, "failed to publish to %s/%s", exchange, routingKey)
	}

	log.Debug().
		Str("exchange", exchange).
		Str("routing_key", routingKey).
		Msg("Message published")
	return nil
}
