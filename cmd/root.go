package cmd

import (
	"time"

	"example.com/orderflow/config"
	"example.com/orderflow/internal/models"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "orderflow",
	Short: "Event-driven order processing services",
	Long:  `Order intake, payment processing and customer notification services coordinated over RabbitMQ`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initDatabase opens the database connection and runs migrations
func initDatabase(cfg config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := models.SetupModels(db); err != nil {
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get underlying DB connection")
	}

	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	return db, nil
}

// waitForGrace blocks for the startup grace period, a coarse substitute for
// broker connection retries, unless the context is cancelled first.
func waitForGrace(done <-chan struct{}, grace time.Duration) bool {
	select {
	case <-done:
		return false
	case <-time.After(grace):
		return true
	}
}
