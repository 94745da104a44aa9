package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentLink struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ReceivableID uint            `gorm:"not null;index" json:"receivable_id"`
	Provider     string          `gorm:"size:30;not null" json:"provider"`
	Kind         string          `gorm:"size:20;not null" json:"kind"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	// Reference is the external reference sent to the gateway. It keeps the
	// original receivable id when dedupe moves the link to another row.
	Reference  string `gorm:"size:40;index" json:"reference"`
	ExternalID string `gorm:"size:100;index" json:"external_id"`
	URL        string `gorm:"size:500" json:"url"`
	QRCode     string `gorm:"type:text" json:"qr_code,omitempty"`
	Status     string `gorm:"size:30" json:"status"`

	Raw datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
