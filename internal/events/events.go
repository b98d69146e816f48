package events

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// ContentType is the wire content type for all events.
const ContentType = "application/json"

// OrderCreatedEvent is published once per successfully persisted order.
// Consumers must tolerate broker-level redelivery of the same event.
type OrderCreatedEvent struct {
	OrderID       uint      `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Product       string    `json:"product"`
	Amount        float64   `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentCompletedEvent reflects the terminal outcome of a payment attempt.
type PaymentCompletedEvent struct {
	OrderID       uint      `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Amount        float64   `json:"amount"`
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	ProcessedAt   time.Time `json:"processed_at"`
}

// Marshal serializes an event to its wire payload
func Marshal(evt interface{}) ([]byte, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal event")
	}
	return body, nil
}

// DecodeOrderCreated parses an OrderCreatedEvent payload. A payload that does
// not unmarshal, or that carries no order id, is malformed and must never be
// retried by callers.
func DecodeOrderCreated(body []byte) (*OrderCreatedEvent, error) {
	var evt OrderCreatedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, errors.Wrap(err, "failed to decode OrderCreatedEvent")
	}
	if evt.OrderID == 0 {
		return nil, errors.New("invalid OrderCreatedEvent: missing order_id")
	}
	return &evt, nil
}

// DecodePaymentCompleted parses a PaymentCompletedEvent payload.
func DecodePaymentCompleted(body []byte) (*PaymentCompletedEvent, error) {
	var evt PaymentCompletedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, errors.Wrap(err, "failed to decode PaymentCompletedEvent")
	}
	if evt.OrderID == 0 {
		return nil, errors.New("invalid PaymentCompletedEvent: missing order_id")
	}
	return &evt, nil
}
