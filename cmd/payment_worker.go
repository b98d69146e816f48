package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/orderflow/config"
	"example.com/orderflow/internal/gateway"
	"example.com/orderflow/internal/messaging"
	"example.com/orderflow/internal/repositories"
	"example.com/orderflow/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var paymentWorkerCmd = &cobra.Command{
	Use:   "payment-worker",
	Short: "Start the payment worker",
	Long:  `Start the background worker that consumes OrderCreatedEvents, processes payments and publishes PaymentCompletedEvents`,
	RunE:  runPaymentWorker,
}

func init() {
	rootCmd.AddCommand(paymentWorkerCmd)
}

func runPaymentWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return err
	}

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Give the broker and dependent services time to come up
	if !waitForGrace(ctx.Done(), cfg.Worker.PaymentStartupGrace) {
		return nil
	}

	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	conn, err := messaging.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to RabbitMQ")
		return err
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn)
	paymentRepo := repositories.NewPaymentRepository(db)
	gw := gateway.NewSimulatedGateway(cfg.Gateway)
	paymentService := services.NewPaymentService(paymentRepo, publisher, gw)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("queue", messaging.OrderQueue).Msg("Starting payment consumer")
		return conn.Consume(ctx, messaging.OrderQueue, paymentService.HandleDelivery)
	})

	// Watchdog for payments abandoned in Processing by dead-lettered messages
	g.Go(func() error {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.WatchdogInterval),
			gocron.NewTask(func() {
				if err := paymentService.ReconcilePayments(ctx, cfg.Worker.WatchdogThreshold); err != nil {
					log.Error().Err(err).Msg("Failed to reconcile payments")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()
		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Payment worker error")
		return err
	}

	log.Info().Msg("Payment worker shutting down gracefully")
	return nil
}
