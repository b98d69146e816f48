package gateway

import (
	"context"
	"testing"
	"time"

	"example.com/orderflow/config"

	"github.com/stretchr/testify/require"
)

func TestChargeAlwaysApprovesAtFullRate(t *testing.T) {
	gw := NewSeededGateway(config.GatewayConfig{Delay: 2 * time.Second, SuccessRate: 100}, 1, func(time.Duration) {})

	for i := 0; i < 50; i++ {
		approved, err := gw.Charge(context.Background(), uint(i+1), 9.99)
		require.NoError(t, err)
		require.True(t, approved)
	}
}

func TestChargeAlwaysDeclinesAtZeroRate(t *testing.T) {
	gw := NewSeededGateway(config.GatewayConfig{Delay: 2 * time.Second, SuccessRate: 0}, 1, func(time.Duration) {})

	for i := 0; i < 50; i++ {
		approved, err := gw.Charge(context.Background(), uint(i+1), 9.99)
		require.NoError(t, err)
		require.False(t, approved)
	}
}

func TestChargeDeterministicUnderFixedSeed(t *testing.T) {
	cfg := config.GatewayConfig{Delay: 2 * time.Second, SuccessRate: 90}

	run := func() []bool {
		gw := NewSeededGateway(cfg, 42, func(time.Duration) {})
		var outcomes []bool
		for i := 0; i < 20; i++ {
			approved, err := gw.Charge(context.Background(), uint(i+1), 9.99)
			require.NoError(t, err)
			outcomes = append(outcomes, approved)
		}
		return outcomes
	}

	require.Equal(t, run(), run())
}

func TestChargeBlocksForConfiguredDelay(t *testing.T) {
	var slept []time.Duration
	gw := NewSeededGateway(config.GatewayConfig{Delay: 2 * time.Second, SuccessRate: 90}, 1, func(d time.Duration) {
		slept = append(slept, d)
	})

	_, err := gw.Charge(context.Background(), 1, 9.99)
	require.NoError(t, err)
	require.Equal(t, []time.Duration{2 * time.Second}, slept)
}
