package cashregister

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/cashregister"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type Register struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewRegister(db *gorm.DB, loc *time.Location, audit *audit.Dispatcher) *Register {
	return &Register{db: db, loc: loc, audit: audit}
}

// ======================================================
// OPEN
// ======================================================

// Open starts a session. At most one register is OPEN system-wide: the
// check below covers the common case and the partial unique index covers
// the race.
func (r *Register) Open(
	ctx context.Context,
	initial decimal.Decimal,
	actorID uint,
) (*models.CashRegister, error) {

	if initial.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	reg := models.CashRegister{
		Status:        string(domain.StatusOpen),
		OpenedBy:      actorID,
		OpenedAt:      time.Now().In(r.loc),
		InitialAmount: initial,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.CashRegister{}).
			Where("status = ?", string(domain.StatusOpen)).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return httperr.ErrBusiness("register_already_open")
		}

		return tx.Omit("Movements").Create(&reg).Error
	})
	if httperr.IsUniqueViolation(err) {
		return nil, httperr.ErrBusiness("register_already_open")
	}
	if err != nil {
		return nil, err
	}

	r.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "cash_register_opened",
		Entity:   "cash_register",
		EntityID: &reg.ID,
		Metadata: map[string]any{"initial_amount": initial.StringFixed(2)},
	})

	return &reg, nil
}

// ======================================================
// MOVEMENTS
// ======================================================

type MovementInput struct {
	Type          domain.MovementType
	Amount        decimal.Decimal
	Description   string
	AppointmentID *uint
	ActorID       *uint
}

func (r *Register) AddMovement(ctx context.Context, in MovementInput) (*models.CashMovement, error) {
	if err := domain.ValidMovement(domain.Movement{Type: in.Type, Amount: in.Amount}); err != nil {
		return nil, err
	}

	var mv *models.CashMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg, err := lockOpen(tx)
		if err != nil {
			return err
		}
		if reg == nil {
			return httperr.ErrBusiness("register_not_open")
		}

		mv, err = insertMovement(tx, reg.ID, in)
		return err
	})
	if err != nil {
		return nil, err
	}

	return mv, nil
}

// RecordAppointmentEntry adds a cash ENTRY for a completed appointment when
// a register is open. It reports false when no register is open.
func RecordAppointmentEntry(tx *gorm.DB, ap *models.Appointment, actorID *uint) (bool, error) {
	if !ap.TotalAmount.IsPositive() {
		return false, nil
	}

	reg, err := lockOpen(tx)
	if err != nil || reg == nil {
		return false, err
	}

	apID := ap.ID
	_, err = insertMovement(tx, reg.ID, MovementInput{
		Type:          domain.MovementEntry,
		Amount:        ap.TotalAmount,
		Description:   fmt.Sprintf("Atendimento #%d", ap.ID),
		AppointmentID: &apID,
		ActorID:       actorID,
	})
	return err == nil, err
}

// ======================================================
// CLOSE
// ======================================================

func (r *Register) Close(
	ctx context.Context,
	actual decimal.Decimal,
	notes string,
	actorID uint,
) (*models.CashRegister, error) {

	if actual.IsNegative() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	var reg *models.CashRegister

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		reg, err = lockOpen(tx)
		if err != nil {
			return err
		}
		if reg == nil {
			return httperr.ErrBusiness("register_not_open")
		}
		if err := domain.CanClose(domain.Status(reg.Status)); err != nil {
			return err
		}

		var rows []models.CashMovement
		if err := tx.Where("cash_register_id = ?", reg.ID).Find(&rows).Error; err != nil {
			return err
		}

		expected := domain.Expected(reg.InitialAmount, toMovements(rows))
		diff := domain.Difference(actual, expected)
		now := time.Now().In(r.loc)

		reg.Status = string(domain.StatusClosed)
		reg.ClosedAt = &now
		reg.ClosedBy = &actorID
		reg.ExpectedAmount = &expected
		reg.ActualAmount = &actual
		reg.Difference = &diff
		reg.Notes = notes
		reg.Movements = rows

		return tx.Model(reg).Updates(map[string]any{
			"status":          reg.Status,
			"closed_at":       reg.ClosedAt,
			"closed_by":       reg.ClosedBy,
			"expected_amount": reg.ExpectedAmount,
			"actual_amount":   reg.ActualAmount,
			"difference":      reg.Difference,
			"notes":           reg.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	r.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "cash_register_closed",
		Entity:   "cash_register",
		EntityID: &reg.ID,
		Metadata: map[string]any{
			"expected":   reg.ExpectedAmount.StringFixed(2),
			"actual":     reg.ActualAmount.StringFixed(2),
			"difference": reg.Difference.StringFixed(2),
		},
	})

	return reg, nil
}

// ======================================================
// CURRENT
// ======================================================

type Summary struct {
	Register *models.CashRegister `json:"register"`
	Expected decimal.Decimal      `json:"expected_amount"`
}

func (r *Register) Current(ctx context.Context) (*Summary, error) {
	var reg models.CashRegister
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("status = ?", string(domain.StatusOpen)).
		First(&reg).Error
	if httperr.IsNotFound(err) {
		return nil, httperr.ErrBusiness("register_not_open")
	}
	if err != nil {
		return nil, err
	}

	return &Summary{
		Register: &reg,
		Expected: domain.Expected(reg.InitialAmount, toMovements(reg.Movements)),
	}, nil
}

// ======================================================
// HELPERS
// ======================================================

func lockOpen(tx *gorm.DB) (*models.CashRegister, error) {
	var reg models.CashRegister
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ?", string(domain.StatusOpen)).
		First(&reg).Error
	if httperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func insertMovement(tx *gorm.DB, registerID uint, in MovementInput) (*models.CashMovement, error) {
	mv := models.CashMovement{
		CashRegisterID: registerID,
		Type:           string(in.Type),
		Amount:         in.Amount,
		Description:    in.Description,
		AppointmentID:  in.AppointmentID,
		CreatedBy:      in.ActorID,
	}
	if err := tx.Create(&mv).Error; err != nil {
		return nil, err
	}
	return &mv, nil
}

func toMovements(rows []models.CashMovement) []domain.Movement {
	out := make([]domain.Movement, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.Movement{
			Type:   domain.MovementType(m.Type),
			Amount: m.Amount,
		})
	}
	return out
}
