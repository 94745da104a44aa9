package finance

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

type PayInput struct {
	ID          uint
	PaymentDate *time.Time
	ActorID     *uint
	ActorKind   string
}

type PayAccounts struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewPayAccounts(db *gorm.DB, loc *time.Location, audit *audit.Dispatcher) *PayAccounts {
	return &PayAccounts{db: db, loc: loc, audit: audit}
}

func (uc *PayAccounts) Receivable(ctx context.Context, in PayInput) (*models.AccountReceivable, error) {
	var rec models.AccountReceivable

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&rec, in.ID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("receivable_not_found")
			}
			return err
		}
		if err := domain.CanPay(domain.Status(rec.Status)); err != nil {
			return err
		}

		paidAt := uc.paymentDate(in.PaymentDate)
		rec.Status = string(domain.StatusPaid)
		rec.PaymentDate = &paidAt

		return tx.Model(&rec).Updates(map[string]any{
			"status":       rec.Status,
			"payment_date": rec.PaymentDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:    in.ActorID,
		ActorKind: in.ActorKind,
		Action:    "receivable_paid",
		Entity:    "account_receivable",
		EntityID:  &rec.ID,
	})

	return &rec, nil
}

func (uc *PayAccounts) Payable(ctx context.Context, in PayInput) (*models.AccountPayable, error) {
	var p models.AccountPayable

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, in.ID).Error; err != nil {
			if httperr.IsNotFound(err) {
				return httperr.ErrBusiness("payable_not_found")
			}
			return err
		}
		if err := domain.CanPay(domain.Status(p.Status)); err != nil {
			return err
		}

		paidAt := uc.paymentDate(in.PaymentDate)
		p.Status = string(domain.StatusPaid)
		p.PaymentDate = &paidAt

		return tx.Model(&p).Updates(map[string]any{
			"status":       p.Status,
			"payment_date": p.PaymentDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:    in.ActorID,
		ActorKind: in.ActorKind,
		Action:    "payable_paid",
		Entity:    "account_payable",
		EntityID:  &p.ID,
	})

	return &p, nil
}

func (uc *PayAccounts) paymentDate(given *time.Time) time.Time {
	if given != nil {
		return given.In(uc.loc)
	}
	return time.Now().In(uc.loc)
}
