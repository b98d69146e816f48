package gateway

import (
	"context"
	"math/rand"
	"time"

	"example.com/orderflow/config"

	"github.com/rs/zerolog/log"
)

// PaymentGateway charges a customer for an order. Charge returns whether the
// charge was approved; an error means the attempt could not be completed and
// should be retried, while a declined charge is a terminal business outcome.
type PaymentGateway interface {
	Charge(ctx context.Context, orderID uint, amount float64) (bool, error)
}

// SimulatedGateway stands in for a real payment provider: a blocking delay
// for gateway latency followed by a biased coin. A production build replaces
// this with an actual provider client behind the same interface.
type SimulatedGateway struct {
	delay       time.Duration
	successRate int
	rng         *rand.Rand
	sleep       func(time.Duration)
}

// NewSimulatedGateway creates a gateway simulation from config
func NewSimulatedGateway(cfg config.GatewayConfig) *SimulatedGateway {
	return &SimulatedGateway{
		delay:       cfg.Delay,
		successRate: cfg.SuccessRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:       time.Sleep,
	}
}

// NewSeededGateway creates a deterministic gateway for tests
func NewSeededGateway(cfg config.GatewayConfig, seed int64, sleep func(time.Duration)) *SimulatedGateway {
	return &SimulatedGateway{
		delay:       cfg.Delay,
		successRate: cfg.SuccessRate,
		rng:         rand.New(rand.NewSource(seed)),
		sleep:       sleep,
	}
}

// Charge simulates processing a payment
func (g *SimulatedGateway) Charge(ctx context.Context, orderID uint, amount float64) (bool, error) {
	log.Info().Uint("order_id", orderID).Float64("amount", amount).Msg("Processing payment")

	g.sleep(g.delay)

	approved := g.rng.Intn(100) < g.successRate
	return approved, nil
}
