package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountReceivable struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Description string          `gorm:"size:255;not null" json:"description"`
	Category    string          `gorm:"size:50" json:"category"`
	PayerName   string          `gorm:"size:100" json:"payer_name"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	DueDate       time.Time  `gorm:"index" json:"due_date"`
	BillingPeriod string     `gorm:"size:7" json:"billing_period"`
	PaymentDate   *time.Time `json:"payment_date"`
	Status        string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	ClientID       *uint `gorm:"index" json:"client_id"`
	SubscriptionID *uint `json:"subscription_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AccountPayable struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Description string          `gorm:"size:255;not null" json:"description"`
	Category    string          `gorm:"size:50" json:"category"`
	Supplier    string          `gorm:"size:100" json:"supplier"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	DueDate     time.Time  `gorm:"index" json:"due_date"`
	PaymentDate *time.Time `json:"payment_date"`
	Status      string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
