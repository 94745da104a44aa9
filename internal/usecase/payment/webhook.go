package payment

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	domain "github.com/BruksfildServices01/barber-admin/internal/domain/payment"
	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
)

type WebhookResult struct {
	PaymentID      string `json:"payment_id"`
	Status         string `json:"status"`
	ReceivableID   uint   `json:"receivable_id,omitempty"`
	Settled        bool   `json:"settled"`
	AmountMismatch bool   `json:"amount_mismatch,omitempty"`
}

// HandleNotification processes a gateway notification. The payload is not
// trusted: the payment is fetched again from the gateway.
type HandleNotification struct {
	db      *gorm.DB
	gateway domain.Gateway
	pay     *finance.PayAccounts
	log     *slog.Logger
}

func NewHandleNotification(
	db *gorm.DB,
	gateway domain.Gateway,
	pay *finance.PayAccounts,
	log *slog.Logger,
) *HandleNotification {
	return &HandleNotification{db: db, gateway: gateway, pay: pay, log: log}
}

func (uc *HandleNotification) Execute(ctx context.Context, paymentID string) (*WebhookResult, error) {
	if uc.gateway == nil {
		return nil, httperr.ErrBusiness("payments_disabled")
	}

	info, err := uc.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		uc.log.Error("payment lookup failed", "payment_id", paymentID, "err", err)
		return nil, httperr.ErrBusiness("payment_gateway_failed")
	}

	res := &WebhookResult{PaymentID: info.ID, Status: info.Status}
	db := uc.db.WithContext(ctx)

	link, err := findLink(db, info)
	if err != nil {
		return nil, err
	}

	if link != nil {
		res.ReceivableID = link.ReceivableID
		if err := db.Model(&models.PaymentLink{}).
			Where("id = ?", link.ID).
			Update("status", info.Status).Error; err != nil {
			return nil, err
		}
	} else {
		refID, err := strconv.ParseUint(info.Reference, 10, 64)
		if err != nil || refID == 0 {
			uc.log.Warn("payment without receivable reference",
				"payment_id", info.ID,
				"reference", info.Reference,
			)
			return res, nil
		}
		res.ReceivableID = uint(refID)
	}

	if info.Status != domain.StatusApproved {
		return res, nil
	}

	var rec models.AccountReceivable
	if err := db.First(&rec, res.ReceivableID).Error; err != nil {
		if httperr.IsNotFound(err) {
			uc.log.Warn("approved payment for unknown receivable",
				"receivable_id", res.ReceivableID,
				"payment_id", info.ID,
			)
			return res, nil
		}
		return nil, err
	}

	if !info.Amount.Equal(rec.Amount) {
		res.AmountMismatch = true
		uc.log.Warn("approved payment amount differs from receivable",
			"receivable_id", rec.ID,
			"payment_id", info.ID,
			"paid", info.Amount.StringFixed(2),
			"expected", rec.Amount.StringFixed(2),
		)
		return res, nil
	}

	now := time.Now()
	_, err = uc.pay.Receivable(ctx, finance.PayInput{
		ID:          rec.ID,
		PaymentDate: &now,
		ActorKind:   audit.ActorSystem,
	})
	switch {
	case err == nil:
		res.Settled = true
		uc.log.Info("receivable settled by gateway",
			"receivable_id", rec.ID,
			"payment_id", info.ID,
			"amount", info.Amount.StringFixed(2),
		)
	case httperr.IsBusiness(err, "invalid_state"):
		// notificação repetida
		res.Settled = true
	default:
		return nil, err
	}

	return res, nil
}

// findLink resolves the link a payment belongs to: a PIX payment by its
// own id, a checkout payment by the reference it carried. Links follow
// their receivable through dedupe, the reference does not.
func findLink(db *gorm.DB, info *domain.PaymentInfo) (*models.PaymentLink, error) {
	var link models.PaymentLink

	err := db.Where("external_id = ?", info.ID).Order("id DESC").First(&link).Error
	if err == nil {
		return &link, nil
	}
	if !httperr.IsNotFound(err) {
		return nil, err
	}

	if info.Reference == "" {
		return nil, nil
	}
	err = db.Where("reference = ?", info.Reference).Order("id DESC").First(&link).Error
	if httperr.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}
