package models

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderStatusPending = "Pending"
)

// Payment statuses
const (
	PaymentStatusPending    = "Pending"
	PaymentStatusProcessing = "Processing"
	PaymentStatusSuccess    = "Success"
	PaymentStatusFailed     = "Failed"
)

// Order represents a customer order
type Order struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CustomerEmail string    `gorm:"not null" json:"customer_email"`
	Product       string    `gorm:"not null" json:"product"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Status        string    `gorm:"not null;default:Pending" json:"status"`
}

// Payment represents a payment attempt for an order. Rows are never deleted;
// a row abandoned in Processing marks a dead-lettered message.
type Payment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	CustomerEmail string    `gorm:"not null" json:"customer_email"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Success       bool      `gorm:"not null;default:false" json:"success"`
	Status        string    `gorm:"not null;default:Pending" json:"status"`
	Message       string    `json:"message"`
	ProcessedAt   time.Time `json:"processed_at"`
	RetryCount    int       `gorm:"not null;default:0" json:"retry_count"`
}

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Order{},
		&Payment{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}
	return nil
}
