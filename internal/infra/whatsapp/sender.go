// Package whatsapp relays text messages through Twilio's WhatsApp API.
package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
	"github.com/BruksfildServices01/barber-admin/internal/validators"
)

// SendTimeout is the hard limit for one outbound message.
const SendTimeout = 10 * time.Second

type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// NormalizePhone returns the digits Twilio expects, with country code 55.
func NormalizePhone(raw string) string {
	return validators.NormalizePhone(raw)
}

// messageAPI is the slice of the Twilio client used here.
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSender struct {
	api     messageAPI
	from    string
	timeout time.Duration
	log     *slog.Logger
}

func NewTwilioSender(accountSID, authToken, from string, log *slog.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return newSender(client.Api, from, log)
}

func newSender(api messageAPI, from string, log *slog.Logger) *TwilioSender {
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}
	return &TwilioSender{
		api:     api,
		from:    from,
		timeout: SendTimeout,
		log:     log,
	}
}

// Send blocks until Twilio answers or the timeout elapses. The Twilio
// client takes no context, so the call runs in its own goroutine and is
// abandoned on timeout.
func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	phone := NormalizePhone(to)
	if !validators.IsPhoneValid(phone) {
		return httperr.ErrBusiness("invalid_phone")
	}
	if strings.TrimSpace(body) == "" {
		return httperr.ErrBusiness("invalid_request")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := &twilioApi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + phone)
	params.SetFrom(s.from)
	params.SetBody(body)

	done := make(chan error, 1)
	go func() {
		_, err := s.api.CreateMessage(params)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			s.log.Error("whatsapp send failed", "to", phone, "err", err)
			return fmt.Errorf("twilio create message: %w", err)
		}
		s.log.Info("whatsapp sent", "to", phone)
		return nil
	case <-ctx.Done():
		s.log.Error("whatsapp send timed out", "to", phone)
		return fmt.Errorf("twilio create message: %w", ctx.Err())
	}
}

// Disabled is used when Twilio credentials are not configured.
type Disabled struct{}

func (Disabled) Send(context.Context, string, string) error {
	return httperr.ErrBusiness("whatsapp_disabled")
}
