package notify

import (
	"fmt"

	"example.com/orderflow/internal/events"

	"github.com/rs/zerolog/log"
)

// Notifier delivers customer-facing notifications for a payment outcome.
// Both channels are best effort; a real implementation would call an email
// and SMS provider here.
type Notifier interface {
	SendEmail(evt *events.PaymentCompletedEvent) error
	SendSMS(evt *events.PaymentCompletedEvent) error
}

// LogNotifier formats notifications and writes them to the log instead of
// calling any external service.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendEmail emits the email notification text
func (n *LogNotifier) SendEmail(evt *events.PaymentCompletedEvent) error {
	log.Info().
		Str("to", evt.CustomerEmail).
		Uint("order_id", evt.OrderID).
		Str("subject", EmailSubject(evt)).
		Msg("EMAIL NOTIFICATION")
	log.Info().Msg(EmailBody(evt))
	log.Info().Uint("order_id", evt.OrderID).Msg("Email sent")
	return nil
}

// SendSMS emits the SMS notification text
func (n *LogNotifier) SendSMS(evt *events.PaymentCompletedEvent) error {
	log.Info().
		Str("via", evt.CustomerEmail).
		Uint("order_id", evt.OrderID).
		Str("message", SMSText(evt)).
		Msg("SMS NOTIFICATION")
	log.Info().Uint("order_id", evt.OrderID).Msg("SMS sent")
	return nil
}

// EmailSubject builds the email subject line for a payment outcome
func EmailSubject(evt *events.PaymentCompletedEvent) string {
	if evt.Success {
		return fmt.Sprintf("Payment Successful - Order #%d", evt.OrderID)
	}
	return fmt.Sprintf("Payment Failed - Order #%d", evt.OrderID)
}

// EmailBody builds the email body text for a payment outcome
func EmailBody(evt *events.PaymentCompletedEvent) string {
	if evt.Success {
		return fmt.Sprintf(
			"Dear Customer,\n\nYour payment has been processed successfully!\n\n"+
				"Order Details:\n  Order ID: #%d\n  Amount: $%.2f\n  Status: SUCCESS\n  Processed: %s UTC\n\n"+
				"Thank you for your business!",
			evt.OrderID, evt.Amount, evt.ProcessedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return fmt.Sprintf(
		"Dear Customer,\n\nUnfortunately, your payment could not be processed.\n\n"+
			"Order Details:\n  Order ID: #%d\n  Amount: $%.2f\n  Status: FAILED\n  Reason: %s\n  Time: %s UTC\n\n"+
			"Please check your payment method and try again.",
		evt.OrderID, evt.Amount, evt.Message, evt.ProcessedAt.UTC().Format("2006-01-02 15:04:05"))
}

// SMSText builds the SMS text for a payment outcome
func SMSText(evt *events.PaymentCompletedEvent) string {
	if evt.Success {
		return fmt.Sprintf("Payment successful! Order #%d - $%.2f. Thank you!", evt.OrderID, evt.Amount)
	}
	return fmt.Sprintf("Payment failed for Order #%d. %s Please try again.", evt.OrderID, evt.Message)
}
