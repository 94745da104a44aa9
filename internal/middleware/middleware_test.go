package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barber-admin/internal/infra/session"
)

func init() { gin.SetMode(gin.TestMode) }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionAuthAndRole(t *testing.T) {
	store := session.NewMemoryStore()
	adminID, _ := store.Create(context.Background(), session.Session{UserID: 1, Role: "admin"})
	staffID, _ := store.Create(context.Background(), session.Session{UserID: 2, Role: "staff"})

	r := gin.New()
	r.GET("/me", SessionAuth(store, quiet()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": *ActorID(c), "kind": ActorKind(c)})
	})
	r.POST("/pay", SessionAuth(store, quiet()), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	cases := []struct {
		name   string
		method string
		path   string
		cookie string
		want   int
	}{
		{"no cookie", http.MethodGet, "/me", "", http.StatusUnauthorized},
		{"unknown session", http.MethodGet, "/me", "nope", http.StatusUnauthorized},
		{"staff", http.MethodGet, "/me", staffID, http.StatusOK},
		{"staff on admin route", http.MethodPost, "/pay", staffID, http.StatusForbidden},
		{"admin on admin route", http.MethodPost, "/pay", adminID, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tc.cookie})
			}
			if w := serve(r, req); w.Code != tc.want {
				t.Fatalf("status %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestBarberAuth(t *testing.T) {
	secret := "s3cret"
	sign := func(claims jwt.MapClaims, key string) string {
		tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		return tok
	}

	r := gin.New()
	r.GET("/barber/me", BarberAuth(secret), func(c *gin.Context) {
		id, _ := BarberID(c)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	valid := sign(jwt.MapClaims{"sub": 7, "role": RoleBarber, "exp": time.Now().Add(time.Hour).Unix()}, secret)
	expired := sign(jwt.MapClaims{"sub": 7, "role": RoleBarber, "exp": time.Now().Add(-time.Hour).Unix()}, secret)
	wrongKey := sign(jwt.MapClaims{"sub": 7, "role": RoleBarber}, "other")
	wrongRole := sign(jwt.MapClaims{"sub": 7, "role": "admin"}, secret)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized},
		{"wrong role", "Bearer " + wrongRole, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/barber/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if w := serve(r, req); w.Code != tc.want {
				t.Fatalf("status %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestInternalSecret(t *testing.T) {
	for _, tc := range []struct {
		name   string
		secret string
		header string
		want   int
	}{
		{"match", "abc", "abc", http.StatusOK},
		{"mismatch", "abc", "abd", http.StatusUnauthorized},
		{"disabled", "", "", http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/internal", InternalSecret(tc.secret), func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/internal", nil)
			req.Header.Set(InternalSecretHeader, tc.header)
			if w := serve(r, req); w.Code != tc.want {
				t.Fatalf("status %d, want %d", w.Code, tc.want)
			}
		})
	}
}

func TestRequestLoggerSetsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(quiet()))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("missing request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	if got := serve(r, req).Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id %q", got)
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://admin.example.com"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	w := serve(r, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "https://admin.example.com" {
		t.Fatalf("preflight: %d %v", w.Code, w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	if got := serve(r, req).Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
