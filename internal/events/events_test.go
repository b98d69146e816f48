package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeOrderCreated(t *testing.T) {
	body := []byte(`{"order_id":1,"customer_email":"a@b.com","product":"Widget","amount":9.99,"created_at":"2026-08-29T12:00:00Z"}`)

	evt, err := DecodeOrderCreated(body)
	require.NoError(t, err)
	require.Equal(t, uint(1), evt.OrderID)
	require.Equal(t, "a@b.com", evt.CustomerEmail)
	require.Equal(t, "Widget", evt.Product)
	require.Equal(t, 9.99, evt.Amount)
}

func TestDecodeOrderCreatedMalformed(t *testing.T) {
	_, err := DecodeOrderCreated([]byte("{truncated"))
	require.Error(t, err)
}

func TestDecodeOrderCreatedMissingOrderID(t *testing.T) {
	_, err := DecodeOrderCreated([]byte(`{"customer_email":"a@b.com","amount":1}`))
	require.Error(t, err)
}

func TestPaymentCompletedRoundTrip(t *testing.T) {
	in := &PaymentCompletedEvent{
		OrderID:       3,
		CustomerEmail: "a@b.com",
		Amount:        12.5,
		Success:       false,
		Message:       "Payment gateway error",
		ProcessedAt:   time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
	}

	body, err := Marshal(in)
	require.NoError(t, err)

	out, err := DecodePaymentCompleted(body)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestDecodePaymentCompletedMalformed(t *testing.T) {
	_, err := DecodePaymentCompleted([]byte("null"))
	require.Error(t, err)

	_, err = DecodePaymentCompleted([]byte(`{"success":true}`))
	require.Error(t, err)
}
