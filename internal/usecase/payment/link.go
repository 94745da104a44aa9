package payment

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	financeDomain "github.com/BruksfildServices01/barber-admin/internal/domain/finance"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/payment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

const providerMercadoPago = "mercadopago"

type CreateLinkInput struct {
	ReceivableID uint
	Kind         string
	PayerEmail   string
	ActorID      *uint
}

type CreateLink struct {
	db      *gorm.DB
	gateway domain.Gateway
	audit   *audit.Dispatcher
	log     *slog.Logger
}

func NewCreateLink(db *gorm.DB, gateway domain.Gateway, audit *audit.Dispatcher, log *slog.Logger) *CreateLink {
	return &CreateLink{db: db, gateway: gateway, audit: audit, log: log}
}

// Execute asks the gateway for a checkout link or a PIX code for an unpaid
// receivable. The receivable id travels as the external reference so the
// webhook can find it.
func (uc *CreateLink) Execute(ctx context.Context, in CreateLinkInput) (*models.PaymentLink, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	kind := domain.Kind(in.Kind)
	if !kind.Valid() {
		return nil, httperr.ErrBusiness("invalid_link_kind")
	}

	var rec models.AccountReceivable
	if err := uc.db.WithContext(ctx).First(&rec, in.ReceivableID).Error; err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.ErrBusiness("receivable_not_found")
		}
		return nil, err
	}
	if financeDomain.Status(rec.Status) == financeDomain.StatusPaid {
		return nil, httperr.ErrBusiness("already_paid")
	}
	if !rec.Amount.IsPositive() {
		return nil, httperr.ErrBusiness("invalid_amount")
	}

	req := domain.ChargeRequest{
		Reference:   strconv.FormatUint(uint64(rec.ID), 10),
		Description: rec.Description,
		Amount:      rec.Amount,
		PayerEmail:  in.PayerEmail,
	}

	var (
		charge *domain.Charge
		err    error
	)
	switch kind {
	case domain.KindPix:
		charge, err = uc.gateway.CreatePix(ctx, req)
	default:
		charge, err = uc.gateway.CreateCheckout(ctx, req)
	}
	if err != nil {
		uc.log.Error("payment gateway failed",
			"receivable_id", rec.ID,
			"kind", kind,
			"err", err,
		)
		return nil, httperr.ErrBusiness("payment_gateway_failed")
	}

	link := models.PaymentLink{
		ReceivableID: rec.ID,
		Provider:     providerMercadoPago,
		Kind:         string(kind),
		Amount:       rec.Amount,
		Reference:    req.Reference,
		ExternalID:   charge.ExternalID,
		URL:          charge.URL,
		QRCode:       charge.QRCode,
		Status:       charge.Status,
		Raw:          rawJSON(charge.Raw),
	}
	if err := uc.db.WithContext(ctx).Create(&link).Error; err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.ActorID,
		Action:   "payment_link_created",
		Entity:   "payment_link",
		EntityID: &link.ID,
		Metadata: map[string]any{"receivable_id": rec.ID, "kind": link.Kind},
	})

	return &link, nil
}

// ListLinks returns the links of a receivable, newest first.
func ListLinks(ctx context.Context, db *gorm.DB, receivableID uint) ([]models.PaymentLink, error) {
	var out []models.PaymentLink
	err := db.WithContext(ctx).
		Where("receivable_id = ?", receivableID).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func rawJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
