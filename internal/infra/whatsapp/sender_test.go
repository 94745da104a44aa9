package whatsapp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

type fakeAPI struct {
	delay time.Duration
	err   error
	got   *twilioApi.CreateMessageParams
}

func (f *fakeAPI) CreateMessage(p *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	time.Sleep(f.delay)
	f.got = p
	return &twilioApi.ApiV2010Message{}, f.err
}

func testSender(api messageAPI) *TwilioSender {
	return newSender(api, "+14155238886", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendFormatsAddresses(t *testing.T) {
	api := &fakeAPI{}
	if err := testSender(api).Send(context.Background(), "(92) 99999-0000", "Olá"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if *api.got.To != "whatsapp:+5592999990000" {
		t.Fatalf("to = %s", *api.got.To)
	}
	if *api.got.From != "whatsapp:+14155238886" {
		t.Fatalf("from = %s", *api.got.From)
	}
}

func TestSendRejectsInvalidPhone(t *testing.T) {
	err := testSender(&fakeAPI{}).Send(context.Background(), "123", "Olá")
	if !httperr.IsBusiness(err, "invalid_phone") {
		t.Fatalf("expected invalid_phone, got %v", err)
	}
}

func TestSendTimesOut(t *testing.T) {
	s := testSender(&fakeAPI{delay: 200 * time.Millisecond})
	s.timeout = 20 * time.Millisecond

	err := s.Send(context.Background(), "92999990000", "Olá")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestSendWrapsProviderError(t *testing.T) {
	boom := errors.New("boom")
	err := testSender(&fakeAPI{err: boom}).Send(context.Background(), "92999990000", "Olá")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
