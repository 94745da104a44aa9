package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Commission struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID        *uint `gorm:"index" json:"appointment_id"`
	AppointmentServiceID *uint `gorm:"uniqueIndex" json:"appointment_service_id"`

	BarberID uint   `gorm:"not null;index" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber"`

	BaseAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_amount"`
	Percentage decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"percentage"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	Status string     `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	PaidAt *time.Time `json:"paid_at"`
	PaidBy *uint      `json:"paid_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
