package models

import "time"

type OnlineBooking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientName  string `gorm:"size:100;not null" json:"client_name"`
	ClientPhone string `gorm:"size:20;not null" json:"client_phone"`
	ClientEmail string `gorm:"size:100" json:"client_email"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `json:"service"`
	BarberID  uint    `gorm:"not null" json:"barber_id"`
	Barber    Barber  `json:"barber"`

	StartTime time.Time `json:"start_time"`
	Notes     string    `gorm:"size:255" json:"notes"`

	Status        string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AppointmentID *uint  `json:"appointment_id"`
	RejectReason  string `gorm:"size:255" json:"reject_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
