package appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ProductItem struct {
	ProductID uint
	Quantity  int
}

type CreateAppointmentInput struct {
	BarberID uint

	// Either an existing client or the data to find/create one by phone.
	ClientID    *uint
	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceIDs []uint
	Products   []ProductItem

	Date  string
	Time  string
	Notes string

	ActorID   *uint
	ActorKind string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	loc *time.Location,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		loc:   loc,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("no_services")
	}

	// --------------------------------------------------
	// 1️⃣ Data / hora no timezone do negócio
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		uc.loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	// --------------------------------------------------
	// 2️⃣ Barbeiro + serviços
	// --------------------------------------------------
	if _, err := uc.repo.GetBarber(ctx, in.BarberID); err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
		return nil, err
	}

	services, err := uc.repo.GetServices(ctx, in.ServiceIDs)
	if err != nil {
		return nil, err
	}

	duration := 0
	lines := make([]models.AppointmentService, 0, len(services))
	total := decimal.Zero
	for _, s := range services {
		duration += s.DurationMin
		total = total.Add(s.Price)
		lines = append(lines, models.AppointmentService{
			ServiceID:   s.ID,
			ServiceName: s.Name,
			DurationMin: s.DurationMin,
			Price:       s.Price,
			BilledPrice: s.Price,
		})
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	// --------------------------------------------------
	// 3️⃣ Working hours + almoço
	// --------------------------------------------------
	wh, err := uc.repo.GetWorkingHours(ctx, in.BarberID, int(start.Weekday()))
	if err != nil && !httperr.IsNotFound(err) {
		return nil, err
	}
	if !domain.IsWithinWorkingHours(wh, start, end) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	// --------------------------------------------------
	// 4️⃣ Cliente (existente ou get or create por telefone)
	// --------------------------------------------------
	var client *models.Client
	if in.ClientID != nil {
		client, err = uc.repo.GetClient(ctx, *in.ClientID)
		if err != nil {
			if httperr.IsNotFound(err) {
				return nil, httperr.ErrBusiness("client_not_found")
			}
			return nil, err
		}
	} else {
		phone := validators.NormalizePhone(in.ClientPhone)
		if in.ClientName == "" || !validators.IsPhoneValid(phone) {
			return nil, httperr.ErrBusiness("invalid_client")
		}
		client, err = uc.repo.GetOrCreateClient(ctx, in.ClientName, phone, in.ClientEmail)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 5️⃣ Produtos
	// --------------------------------------------------
	productLines, productsTotal, err := uc.productLines(ctx, in.Products)
	if err != nil {
		return nil, err
	}
	total = total.Add(productsTotal)

	// --------------------------------------------------
	// 6️⃣ Criação com checagem de conflito
	// --------------------------------------------------
	ap := &models.Appointment{
		BarberID:    in.BarberID,
		ClientID:    client.ID,
		StartTime:   start,
		EndTime:     end,
		Status:      string(domain.InitialStatus()),
		TotalAmount: total,
		Notes:       in.Notes,
		Services:    lines,
		Products:    productLines,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.IsBusiness(err, "time_conflict") {
			uc.audit.Dispatch(audit.Event{
				UserID:    in.ActorID,
				ActorKind: in.ActorKind,
				Action:    "appointment_conflict",
				Entity:    "appointment",
				Metadata: map[string]any{
					"barber_id": in.BarberID,
					"start":     start,
					"end":       end,
				},
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 7️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:    in.ActorID,
		ActorKind: in.ActorKind,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	ap.Client = *client
	return ap, nil
}

func (uc *CreateAppointment) productLines(
	ctx context.Context,
	items []ProductItem,
) ([]models.AppointmentProduct, decimal.Decimal, error) {

	total := decimal.Zero
	if len(items) == 0 {
		return nil, total, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, total, httperr.ErrBusiness("invalid_quantity")
		}
		ids = append(ids, it.ProductID)
	}

	products, err := uc.repo.GetProducts(ctx, ids)
	if err != nil {
		return nil, total, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]models.AppointmentProduct, 0, len(items))
	for _, it := range items {
		p := byID[it.ProductID]
		out = append(out, models.AppointmentProduct{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			UnitPrice:   p.Price,
		})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return out, total, nil
}
