package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/orderflow/config"
	"example.com/orderflow/internal/messaging"
	"example.com/orderflow/internal/notify"
	"example.com/orderflow/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var notificationWorkerCmd = &cobra.Command{
	Use:   "notification-worker",
	Short: "Start the notification worker",
	Long:  `Start the background worker that consumes PaymentCompletedEvents and sends customer notifications`,
	RunE:  runNotificationWorker,
}

func init() {
	rootCmd.AddCommand(notificationWorkerCmd)
}

func runNotificationWorker(cmd *cobra.Command, args []string) error {
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

	// Give the broker and upstream services time to come up
	if !waitForGrace(ctx.Done(), cfg.Worker.NotificationStartupGrace) {
		return nil
	}

	conn, err := messaging.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to RabbitMQ")
		return err
	}
	defer conn.Close()

	notificationService := services.NewNotificationService(notify.NewLogNotifier())

	log.Info().Str("queue", messaging.NotificationQueue).Msg("Starting notification consumer")
	if err := conn.Consume(ctx, messaging.NotificationQueue, notificationService.HandleDelivery); err != nil {
		log.Error().Err(err).Msg("Notification worker error")
		return err
	}

	log.Info().Msg("Notification worker shutting down gracefully")
	return nil
}
