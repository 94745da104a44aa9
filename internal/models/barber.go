package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string  `gorm:"size:100;not null" json:"name"`
	Phone string  `gorm:"size:20" json:"phone"`
	Email *string `gorm:"size:100;uniqueIndex" json:"email"`

	// Mobile app login; empty means the barber cannot log in.
	PasswordHash string `gorm:"size:255" json:"-"`

	// Default commission percentage (0-100).
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"commission_rate"`
	Active         bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BarberServiceCommission overrides Barber.CommissionRate for one service.
type BarberServiceCommission struct {
	BarberID   uint            `gorm:"primaryKey" json:"barber_id"`
	ServiceID  uint            `gorm:"primaryKey" json:"service_id"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
