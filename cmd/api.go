package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"example.com/orderflow/config"
	"example.com/orderflow/internal/api"
	"example.com/orderflow/internal/cache"
	"example.com/orderflow/internal/messaging"
	"example.com/orderflow/internal/repositories"
	"example.com/orderflow/internal/services"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the order intake API server",
	Long:  `Start the HTTP API server that accepts orders and publishes OrderCreatedEvents`,
	RunE:  runAPI,
}

func init() {
	rootCmd.AddCommand(apiCmd)
}

func runAPI(cmd *cobra.Command, args []string) error {
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

	db, err := initDatabase(cfg)
	if err != nil {
		return err
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
		redisCache = nil
	}

	conn, err := messaging.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to RabbitMQ")
		return err
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn)
	orderRepo := repositories.NewOrderRepository(db)
	orderService := services.NewOrderService(orderRepo, publisher)

	server := api.NewServer(cfg, orderService, redisCache)

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
		}
	}()

	<-ctx.Done()

	if err := server.Shutdown(context.Background()); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutting down API server")
	return nil
}
