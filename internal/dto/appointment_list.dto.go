package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type AppointmentListDTO struct {
	ID        uint      `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`

	ClientID   uint   `json:"client_id"`
	ClientName string `json:"client_name"`
	BarberID   uint   `json:"barber_id"`
	BarberName string `json:"barber_name"`

	Services []string `json:"services"`

	TotalAmount               decimal.Decimal `json:"total_amount"`
	TotalOverridden           bool            `json:"total_overridden"`
	IsSubscriptionAppointment bool            `json:"is_subscription_appointment"`
}

func FromAppointment(ap models.Appointment) AppointmentListDTO {
	names := make([]string, 0, len(ap.Services))
	for _, s := range ap.Services {
		names = append(names, s.ServiceName)
	}

	return AppointmentListDTO{
		ID:                        ap.ID,
		StartTime:                 ap.StartTime,
		EndTime:                   ap.EndTime,
		Status:                    ap.Status,
		ClientID:                  ap.ClientID,
		ClientName:                ap.Client.Name,
		BarberID:                  ap.BarberID,
		BarberName:                ap.Barber.Name,
		Services:                  names,
		TotalAmount:               ap.TotalAmount,
		TotalOverridden:           ap.TotalOverridden,
		IsSubscriptionAppointment: ap.IsSubscriptionAppointment,
	}
}
