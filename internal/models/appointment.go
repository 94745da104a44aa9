package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BarberID uint   `gorm:"index" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"barber"`

	ClientID uint   `gorm:"index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	TotalOverridden bool            `gorm:"default:false" json:"total_overridden"`
	PaymentMethod   string          `gorm:"size:30" json:"payment_method"`

	IsSubscriptionAppointment bool  `gorm:"default:false" json:"is_subscription_appointment"`
	SubscriptionID            *uint `json:"subscription_id"`

	WorkedHours             decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"worked_hours"`
	WorkedHoursSubscription decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"worked_hours_subscription"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	Services []AppointmentService `gorm:"foreignKey:AppointmentID" json:"services"`
	Products []AppointmentProduct `gorm:"foreignKey:AppointmentID" json:"products"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppointmentService is a line item. Price is the catalog price at booking
// time; BilledPrice is what the client owes after entitlements.
type AppointmentService struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"not null;index" json:"appointment_id"`
	ServiceID     uint `gorm:"not null;index" json:"service_id"`

	ServiceName string          `gorm:"size:100" json:"service_name"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	BilledPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"billed_price"`

	Covered        bool  `gorm:"default:false" json:"covered"`
	SubscriptionID *uint `gorm:"index" json:"subscription_id"`
}

type AppointmentProduct struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	AppointmentID uint `gorm:"not null;index" json:"appointment_id"`
	ProductID     uint `gorm:"not null" json:"product_id"`

	ProductName string          `gorm:"size:100" json:"product_name"`
	Quantity    int             `gorm:"not null;default:1" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
}
