// Package mercadopago implements payment.Gateway on the MercadoPago SDK.
package mercadopago

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/domain/payment"
)

const currencyBRL = "BRL"

type Gateway struct {
	payments        mppayment.Client
	preferences     preference.Client
	notificationURL string
}

func NewGateway(accessToken, notificationURL string) (*Gateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &Gateway{
		payments:        mppayment.NewClient(cfg),
		preferences:     preference.NewClient(cfg),
		notificationURL: notificationURL,
	}, nil
}

// CreateCheckout creates a checkout preference; the client pays on
// MercadoPago's page.
func (g *Gateway) CreateCheckout(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	res, err := g.preferences.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			Title:      req.Description,
			Quantity:   1,
			UnitPrice:  req.Amount.InexactFloat64(),
			CurrencyID: currencyBRL,
		}},
		ExternalReference: req.Reference,
		NotificationURL:   g.notificationURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	return &payment.Charge{
		ExternalID: res.ID,
		URL:        res.InitPoint,
		Status:     "created",
		Raw:        res,
	}, nil
}

// CreatePix creates a PIX payment and returns its copy-and-paste code.
func (g *Gateway) CreatePix(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	res, err := g.payments.Create(ctx, mppayment.Request{
		TransactionAmount: req.Amount.InexactFloat64(),
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.Reference,
		NotificationURL:   g.notificationURL,
		Payer: &mppayment.PayerRequest{
			Email: req.PayerEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pix payment: %w", err)
	}

	tx := res.PointOfInteraction.TransactionData
	return &payment.Charge{
		ExternalID: strconv.Itoa(res.ID),
		URL:        tx.TicketURL,
		QRCode:     tx.QRCode,
		Status:     res.Status,
		Raw:        res,
	}, nil
}

func (g *Gateway) GetPayment(ctx context.Context, id string) (*payment.PaymentInfo, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("invalid payment id %q: %w", id, err)
	}

	res, err := g.payments.Get(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", n, err)
	}

	return &payment.PaymentInfo{
		ID:        strconv.Itoa(res.ID),
		Status:    res.Status,
		Reference: res.ExternalReference,
		Amount:    decimal.NewFromFloat(res.TransactionAmount).Round(2),
	}, nil
}
