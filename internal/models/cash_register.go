package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashRegister struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Status string `gorm:"size:20;not null;default:'OPEN'" json:"status"`

	OpenedBy      uint            `json:"opened_by"`
	OpenedAt      time.Time       `json:"opened_at"`
	InitialAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"initial_amount"`

	ClosedBy       *uint            `json:"closed_by"`
	ClosedAt       *time.Time       `json:"closed_at"`
	ExpectedAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"expected_amount"`
	ActualAmount   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"actual_amount"`
	Difference     *decimal.Decimal `gorm:"type:decimal(12,2)" json:"difference"`
	Notes          string           `gorm:"size:255" json:"notes"`

	Movements []CashMovement `gorm:"foreignKey:CashRegisterID" json:"movements,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CashMovement is append-only.
type CashMovement struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CashRegisterID uint            `gorm:"not null;index" json:"cash_register_id"`
	Type           string          `gorm:"size:10;not null" json:"type"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description    string          `gorm:"size:255" json:"description"`
	AppointmentID  *uint           `json:"appointment_id"`
	CreatedBy      *uint           `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
}
