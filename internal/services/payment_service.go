package services

import (
	"context"
	"time"

	"example.com/orderflow/internal/events"
	"example.com/orderflow/internal/gateway"
	"example.com/orderflow/internal/messaging"
	"example.com/orderflow/internal/models"
	"example.com/orderflow/internal/repositories"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// MaxRetries bounds redeliveries per message: one original delivery plus
	// three retries, then dead-letter.
	MaxRetries = 3

	retryDelayStep = 2 * time.Second
)

// Payment outcome messages, part of the PaymentCompletedEvent contract.
const (
	PaymentSuccessMessage = "Payment processed successfully"
	PaymentFailureMessage = "Payment gateway error"
)

// RetryDelay returns the linear backoff before republishing a message that
// has already been retried retryCount times: 2s, 4s, 6s.
func RetryDelay(retryCount int) time.Duration {
	return time.Duration(retryCount+1) * retryDelayStep
}

// PaymentService consumes OrderCreatedEvent messages, charges the gateway,
// records the outcome and publishes a PaymentCompletedEvent. Transient
// failures are retried with linear backoff via republish, then dead-lettered.
type PaymentService struct {
	paymentRepo repositories.PaymentRepository
	publisher   messaging.Publisher
	gateway     gateway.PaymentGateway
	sleep       func(time.Duration)
	now         func() time.Time
}

// NewPaymentService creates a new payment service
func NewPaymentService(paymentRepo repositories.PaymentRepository, publisher messaging.Publisher, gw gateway.PaymentGateway) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		publisher:   publisher,
		gateway:     gw,
		sleep:       time.Sleep,
		now:         time.Now,
	}
}

// HandleDelivery processes one OrderCreatedEvent delivery end to end. The
// ack/reject decision is made here; the returned error is for logging only.
func (s *PaymentService) HandleDelivery(ctx context.Context, d messaging.Delivery) error {
	retryCount := d.RetryCount()

	evt, err := events.DecodeOrderCreated(d.Body())
	if err != nil {
		// Malformed input is terminal, never retried
		log.Error().Err(err).Msg("Invalid OrderCreatedEvent, dead-lettering")
		if rejectErr := d.Reject(false); rejectErr != nil {
			return errors.Wrap(rejectErr, "failed to reject malformed message")
		}
		return err
	}

	log.Info().
		Uint("order_id", evt.OrderID).
		Int("retry_count", retryCount).
		Msg("OrderCreatedEvent received")

	if err := s.process(ctx, evt, retryCount); err != nil {
		return s.handleFailure(ctx, d, evt.OrderID, retryCount, err)
	}

	if err := d.Ack(); err != nil {
		return errors.Wrapf(err, "failed to ack order %d", evt.OrderID)
	}
	return nil
}

// process runs the payment state machine: Processing, gateway charge,
// terminal resolution, outcome publish.
func (s *PaymentService) process(ctx context.Context, evt *events.OrderCreatedEvent, retryCount int) error {
	payment := &models.Payment{
		OrderID:       evt.OrderID,
		CustomerEmail: evt.CustomerEmail,
		Amount:        evt.Amount,
		Status:        models.PaymentStatusProcessing,
		ProcessedAt:   s.now().UTC(),
		RetryCount:    retryCount,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return err
	}

	approved, err := s.gateway.Charge(ctx, evt.OrderID, evt.Amount)
	if err != nil {
		return errors.Wrapf(err, "gateway charge failed for order %d", evt.OrderID)
	}

	payment.Success = approved
	payment.ProcessedAt = s.now().UTC()
	if approved {
		payment.Status = models.PaymentStatusSuccess
		payment.Message = PaymentSuccessMessage
	} else {
		payment.Status = models.PaymentStatusFailed
		payment.Message = PaymentFailureMessage
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return err
	}

	log.Info().
		Uint("order_id", evt.OrderID).
		Bool("success", approved).
		Float64("amount", evt.Amount).
		Msg("Payment resolved")

	outcome := &events.PaymentCompletedEvent{
		OrderID:       evt.OrderID,
		CustomerEmail: evt.CustomerEmail,
		Amount:        evt.Amount,
		Success:       approved,
		Message:       payment.Message,
		ProcessedAt:   payment.ProcessedAt,
	}
	body, err := events.Marshal(outcome)
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, messaging.PaymentExchange, messaging.PaymentCompletedKey, body, nil); err != nil {
		return err
	}

	log.Info().Uint("order_id", evt.OrderID).Msg("PaymentCompletedEvent published")
	return nil
}

// handleFailure applies the retry policy after a processing error. Below the
// cap, the original payload is republished with an incremented retry header
// after a linear backoff; the retry is a new message at the back of the
// queue, so the original is acked rather than requeued. At the cap, the
// message is dead-lettered.
func (s *PaymentService) handleFailure(ctx context.Context, d messaging.Delivery, orderID uint, retryCount int, cause error) error {
	log.Error().
		Err(cause).
		Uint("order_id", orderID).
		Int("retry_count", retryCount).
		Msg("Payment processing failed")

	if retryCount >= MaxRetries {
		log.Error().
			Uint("order_id", orderID).
			Msg("Max retries reached, dead-lettering message")
		if err := d.Reject(false); err != nil {
			return errors.Wrap(err, "failed to dead-letter message")
		}
		return cause
	}

	delay := RetryDelay(retryCount)
	log.Warn().
		Uint("order_id", orderID).
		Dur("delay", delay).
		Int("attempt", retryCount+1).
		Int("max_retries", MaxRetries).
		Msg("Retrying message")

	s.sleep(delay)

	headers := map[string]interface{}{
		messaging.RetryCountHeader: retryCount + 1,
	}
	if err := s.publisher.Publish(ctx, messaging.OrderExchange, messaging.OrderCreatedKey, d.Body(), headers); err != nil {
		// The retry could not be queued; requeue the original so the
		// message is not lost.
		log.Error().Err(err).Uint("order_id", orderID).Msg("Failed to republish retry, requeueing original")
		if rejectErr := d.Reject(true); rejectErr != nil {
			return errors.Wrap(rejectErr, "failed to requeue after republish failure")
		}
		return err
	}

	if err := d.Ack(); err != nil {
		return errors.Wrap(err, "failed to ack retried message")
	}
	return cause
}

// ReconcilePayments logs payments stuck in Processing beyond the threshold.
// A stuck row marks a message that was dead-lettered after the Processing
// record was written; resolution requires an operator.
func (s *PaymentService) ReconcilePayments(ctx context.Context, threshold time.Duration) error {
	cutoff := s.now().UTC().Add(-threshold)
	stale, err := s.paymentRepo.ListStaleProcessing(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, p := range stale {
		log.Warn().
			Uint("order_id", p.OrderID).
			Uint("payment_id", p.ID).
			Int("retry_count", p.RetryCount).
			Time("updated_at", p.UpdatedAt).
			Msg("Payment stuck in Processing, likely dead-lettered")
	}
	if len(stale) > 0 {
		log.Warn().Int("count", len(stale)).Msg("Stale processing payments found")
	}
	return nil
}
