package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/dto"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
)

type ListAppointments struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointments(repo domain.Repository, loc *time.Location) *ListAppointments {
	return &ListAppointments{repo: repo, loc: loc}
}

type ListInput struct {
	BarberID *uint
	ClientID *uint
	Status   string
}

func (uc *ListAppointments) ByDate(
	ctx context.Context,
	in ListInput,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	start := timezone.StartOfDay(date, uc.loc)
	return uc.list(ctx, in, start, start.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	in ListInput,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	start, end := timezone.MonthRange(year, time.Month(month), uc.loc)
	return uc.list(ctx, in, start, end)
}

func (uc *ListAppointments) list(
	ctx context.Context,
	in ListInput,
	start, end time.Time,
) ([]dto.AppointmentListDTO, error) {

	appointments, err := uc.repo.ListAppointments(ctx, domain.ListFilter{
		BarberID: in.BarberID,
		ClientID: in.ClientID,
		Status:   in.Status,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.FromAppointment(ap))
	}

	return out, nil
}
