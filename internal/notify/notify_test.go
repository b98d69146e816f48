package notify

import (
	"testing"
	"time"

	"example.com/orderflow/internal/events"

	"github.com/stretchr/testify/require"
)

func sampleEvent(success bool) *events.PaymentCompletedEvent {
	msg := "Payment processed successfully"
	if !success {
		msg = "Payment gateway error"
	}
	return &events.PaymentCompletedEvent{
		OrderID:       1,
		CustomerEmail: "a@b.com",
		Amount:        9.99,
		Success:       success,
		Message:       msg,
		ProcessedAt:   time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}
}

func TestEmailSubject(t *testing.T) {
	require.Equal(t, "Payment Successful - Order #1", EmailSubject(sampleEvent(true)))
	require.Equal(t, "Payment Failed - Order #1", EmailSubject(sampleEvent(false)))
}

func TestEmailBodySuccess(t *testing.T) {
	body := EmailBody(sampleEvent(true))
	require.Contains(t, body, "Order ID: #1")
	require.Contains(t, body, "Amount: $9.99")
	require.Contains(t, body, "Status: SUCCESS")
	require.Contains(t, body, "2026-08-29 12:00:00")
}

func TestEmailBodyFailure(t *testing.T) {
	body := EmailBody(sampleEvent(false))
	require.Contains(t, body, "Status: FAILED")
	require.Contains(t, body, "Reason: Payment gateway error")
	require.Contains(t, body, "try again")
}

func TestSMSText(t *testing.T) {
	require.Equal(t, "Payment successful! Order #1 - $9.99. Thank you!", SMSText(sampleEvent(true)))
	require.Equal(t, "Payment failed for Order #1. Payment gateway error Please try again.", SMSText(sampleEvent(false)))
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier()
	require.NoError(t, n.SendEmail(sampleEvent(true)))
	require.NoError(t, n.SendSMS(sampleEvent(false)))
}
