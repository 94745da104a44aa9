package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type ListFilter struct {
	BarberID *uint
	ClientID *uint
	Status   string
	Start    time.Time
	End      time.Time
}

type Repository interface {
	// -------- Catalog --------
	GetServices(
		ctx context.Context,
		ids []uint,
	) ([]models.Service, error)

	GetProducts(
		ctx context.Context,
		ids []uint,
	) ([]models.Product, error)

	GetBarber(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	// -------- Client --------
	GetClient(
		ctx context.Context,
		id uint,
	) (*models.Client, error)

	GetOrCreateClient(
		ctx context.Context,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Appointment (create / conflict) --------

	// CreateAppointment inserts ap with its line items unless another
	// scheduled appointment of the same barber overlaps it.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CountCommissions(
		ctx context.Context,
		appointmentID uint,
	) (int64, error)

	// -------- Availability --------
	GetWorkingHours(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.WorkingHours, error)

	ListAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)
}
