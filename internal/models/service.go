package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a catalog entry (haircut, beard...).
type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Active      bool            `gorm:"default:true" json:"active"`

	Category string `gorm:"size:50" json:"category"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product is a retail item sold during an appointment.
type Product struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name     string          `gorm:"size:100;not null" json:"name"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock    int             `gorm:"default:0" json:"stock"`
	ImageURL string          `gorm:"size:255" json:"image_url"`
	Active   bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
