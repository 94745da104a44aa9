package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

type GetAvailability struct {
	repo domain.Repository
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	services, err := uc.repo.GetServices(ctx, []uint{in.ServiceID})
	if err != nil {
		return nil, err
	}

	wh, err := uc.repo.GetWorkingHours(ctx, in.BarberID, int(in.Date.Weekday()))
	if err != nil {
		if httperr.IsNotFound(err) {
			return []domain.TimeSlot{}, nil
		}
		return nil, err
	}
	if !wh.Active {
		return []domain.TimeSlot{}, nil
	}

	dayStart := domain.ParseHM(in.Date, wh.StartTime)
	dayEnd := domain.ParseHM(in.Date, wh.EndTime)

	booked, err := uc.repo.ListAppointmentsForDay(ctx, in.BarberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(services[0].DurationMin) * time.Minute
	return domain.Slots(wh, in.Date, duration, booked), nil
}
