package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/config"
	"github.com/BruksfildServices01/barber-admin/internal/infra/session"
	"github.com/BruksfildServices01/barber-admin/internal/middleware"
	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/testdb"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
	ucAuth "github.com/BruksfildServices01/barber-admin/internal/usecase/auth"
)

func init() { gin.SetMode(gin.TestMode) }

var loc = timezone.Location("America/Sao_Paulo")

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(_ context.Context, to, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

type env struct {
	r      *gin.Engine
	db     *gorm.DB
	sender *recordingSender
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := testdb.New(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	dispatcher := audit.NewDispatcher(audit.New(db), log)
	t.Cleanup(dispatcher.Close)

	sender := &recordingSender{}
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB: db,
		Config: &config.Config{
			JWTSecret:      "test-secret",
			InternalSecret: "internal",
			SessionTTL:     time.Hour,
		},
		Log:      log,
		Loc:      loc,
		Audit:    dispatcher,
		Sessions: session.NewMemoryStore(),
		Sender:   sender,
	})
	return &env{r: r, db: db, sender: sender}
}

func (e *env) do(t *testing.T, method, path string, body any, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

// login creates a staff user and returns its session cookie.
func (e *env) login(t *testing.T, email, role string) *http.Cookie {
	t.Helper()

	hash, err := ucAuth.HashPassword("senha123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	e.db.Create(&models.User{Name: "Equipe", Email: email, PasswordHash: hash, Role: role, Active: true})

	w := e.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": "senha123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func seedBarber(t *testing.T, db *gorm.DB, email string) (models.Barber, models.Service) {
	t.Helper()

	hash, _ := ucAuth.HashPassword("barber123")
	barber := models.Barber{
		Name:           "Carlos",
		Email:          &email,
		PasswordHash:   hash,
		CommissionRate: decimal.NewFromInt(40),
		Active:         true,
	}
	service := models.Service{Name: "Corte", DurationMin: 30, Price: decimal.RequireFromString("50"), Active: true}
	db.Create(&barber)
	db.Create(&service)
	for wd := 0; wd < 7; wd++ {
		db.Create(&models.WorkingHours{BarberID: barber.ID, Weekday: wd, StartTime: "08:00", EndTime: "20:00", Active: true})
	}
	return barber, service
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func future(days int) string {
	return time.Now().In(loc).AddDate(0, 0, days).Format("2006-01-02")
}

func TestStaffRoutesRequireSession(t *testing.T) {
	e := newEnv(t)

	if w := e.do(t, http.MethodGet, "/api/clients", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}

	w := e.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "x@y.com", "password": "errada"}, nil)
	if w.Code == http.StatusOK {
		t.Fatal("unknown user must not log in")
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	e := newEnv(t)
	staff := e.login(t, "staff@barbearia.com", models.RoleStaff)
	admin := e.login(t, "admin@barbearia.com", models.RoleAdmin)

	if w := e.do(t, http.MethodGet, "/api/audit-logs", nil, withCookie(staff)); w.Code != http.StatusForbidden {
		t.Fatalf("staff status %d, want 403", w.Code)
	}
	if w := e.do(t, http.MethodGet, "/api/audit-logs", nil, withCookie(admin)); w.Code != http.StatusOK {
		t.Fatalf("admin status %d: %s", w.Code, w.Body.String())
	}
}

func TestClientCreateNormalizesPhone(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, "staff@barbearia.com", models.RoleStaff)

	w := e.do(t, http.MethodPost, "/api/clients", gin.H{"name": "Ana", "phone": "(92) 99999-0000"}, withCookie(cookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var client models.Client
	decode(t, w, &client)
	if client.Phone != "5592999990000" {
		t.Fatalf("phone = %q", client.Phone)
	}

	w = e.do(t, http.MethodPost, "/api/clients", gin.H{"name": "Bia", "phone": "123"}, withCookie(cookie))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid phone status %d: %s", w.Code, w.Body.String())
	}
}

func TestPayableListMarksOverdue(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, "staff@barbearia.com", models.RoleStaff)

	due := time.Now().In(loc).AddDate(0, 0, -3).Format("2006-01-02")
	w := e.do(t, http.MethodPost, "/api/accounts-payable", gin.H{
		"description": "Aluguel",
		"amount":      "1200.00",
		"due_date":    due,
	}, withCookie(cookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, "/api/accounts-payable", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("list status %d: %s", w.Code, w.Body.String())
	}
	var list struct {
		Data []models.AccountPayable `json:"data"`
	}
	decode(t, w, &list)
	if len(list.Data) != 1 || list.Data[0].Status != "OVERDUE" {
		t.Fatalf("list = %+v", list.Data)
	}

	w = e.do(t, http.MethodPost, "/api/accounts-payable", gin.H{
		"description": "Zero",
		"amount":      "0",
		"due_date":    due,
	}, withCookie(cookie))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero amount status %d", w.Code)
	}
}

func TestCashRegisterOpenMoveClose(t *testing.T) {
	e := newEnv(t)
	cookie := e.login(t, "staff@barbearia.com", models.RoleStaff)

	if w := e.do(t, http.MethodPost, "/api/cash-register/open", gin.H{"initial_amount": "100.00"}, withCookie(cookie)); w.Code != http.StatusCreated {
		t.Fatalf("open status %d: %s", w.Code, w.Body.String())
	}
	if w := e.do(t, http.MethodPost, "/api/cash-register/open", gin.H{"initial_amount": "50.00"}, withCookie(cookie)); w.Code == http.StatusCreated {
		t.Fatal("second register must not open")
	}

	w := e.do(t, http.MethodPost, "/api/cash-register/movements", gin.H{
		"type":        "entry",
		"amount":      "30.00",
		"description": "Venda avulsa",
	}, withCookie(cookie))
	if w.Code != http.StatusCreated {
		t.Fatalf("movement status %d: %s", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/cash-register/close", gin.H{"actual_amount": "125.00"}, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("close status %d: %s", w.Code, w.Body.String())
	}
	var reg models.CashRegister
	decode(t, w, &reg)
	if reg.Status != "CLOSED" || reg.Difference == nil || !reg.Difference.Equal(decimal.RequireFromString("-5")) {
		t.Fatalf("register = %+v", reg)
	}
}

func TestPublicBookingConfirmedByStaff(t *testing.T) {
	e := newEnv(t)
	barber, service := seedBarber(t, e.db, "carlos@barbearia.com")

	w := e.do(t, http.MethodPost, "/api/public/bookings", gin.H{
		"client_name":  "Ana",
		"client_phone": "(92) 99999-0000",
		"service_id":   service.ID,
		"barber_id":    barber.ID,
		"date":         future(5),
		"time":         "10:00",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("request status %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, w, &created)
	if created.Status != "pending" {
		t.Fatalf("status = %q", created.Status)
	}

	cookie := e.login(t, "staff@barbearia.com", models.RoleStaff)
	w = e.do(t, http.MethodPatch, "/api/online-bookings/"+itoa(created.ID)+"/confirm", nil, withCookie(cookie))
	if w.Code != http.StatusOK {
		t.Fatalf("confirm status %d: %s", w.Code, w.Body.String())
	}

	var stored models.OnlineBooking
	e.db.First(&stored, created.ID)
	if stored.Status != "confirmed" || stored.AppointmentID == nil {
		t.Fatalf("booking = %+v", stored)
	}

	w = e.do(t, http.MethodPatch, "/api/online-bookings/"+itoa(created.ID)+"/confirm", nil, withCookie(cookie))
	if w.Code == http.StatusOK {
		t.Fatal("booking must not be confirmed twice")
	}
}

func TestBarberTokenScopesAppointments(t *testing.T) {
	e := newEnv(t)
	_, _ = seedBarber(t, e.db, "carlos@barbearia.com")

	w := e.do(t, http.MethodPost, "/api/barber/auth/login", gin.H{"email": "carlos@barbearia.com", "password": "barber123"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("barber login status %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	decode(t, w, &login)

	bearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+login.Token) }

	if w := e.do(t, http.MethodGet, "/api/barber/me", nil, bearer); w.Code != http.StatusOK {
		t.Fatalf("me status %d: %s", w.Code, w.Body.String())
	}
	if w := e.do(t, http.MethodGet, "/api/barber/me/appointments?date="+future(1), nil, bearer); w.Code != http.StatusOK {
		t.Fatalf("appointments status %d: %s", w.Code, w.Body.String())
	}
	if w := e.do(t, http.MethodGet, "/api/barber/me", nil, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status %d", w.Code)
	}
	if w := e.do(t, http.MethodGet, "/api/clients", nil, bearer); w.Code != http.StatusUnauthorized {
		t.Fatalf("barber token on staff route status %d", w.Code)
	}
}

func TestWebhookIgnoresNonPaymentTopics(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodPost, "/api/webhooks/mercadopago", gin.H{"type": "merchant_order", "data": gin.H{"id": "1"}}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var out map[string]string
	decode(t, w, &out)
	if out["status"] != "ignored" {
		t.Fatalf("body = %v", out)
	}
}

func TestInternalWhatsAppRelay(t *testing.T) {
	e := newEnv(t)
	body := gin.H{"to": "(92) 99999-0000", "message": "Seu horário foi confirmado"}

	if w := e.do(t, http.MethodPost, "/internal/whatsapp/send", body, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing secret status %d", w.Code)
	}

	w := e.do(t, http.MethodPost, "/internal/whatsapp/send", body, func(r *http.Request) {
		r.Header.Set(middleware.InternalSecretHeader, "internal")
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}

	e.sender.mu.Lock()
	defer e.sender.mu.Unlock()
	if len(e.sender.sent) != 1 || e.sender.sent[0] != "5592999990000" {
		t.Fatalf("sent = %v", e.sender.sent)
	}
}
