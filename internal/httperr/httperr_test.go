package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsBusinessThroughWrapping(t *testing.T) {
	err := fmt.Errorf("complete appointment: %w", ErrBusiness("invalid_state"))
	if !IsBusiness(err, "invalid_state") {
		t.Fatal("expected wrapped business error to match")
	}
	if IsBusiness(err, "time_conflict") {
		t.Fatal("unexpected code match")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"postgres", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite", errors.New("UNIQUE constraint failed: account_receivables.subscription_id"), true},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRespondMapsBusinessCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBusiness("register_already_open"), http.StatusConflict, "register_already_open"},
		{ErrBusiness("client_not_found"), http.StatusNotFound, "client_not_found"},
		{ErrBusiness("something_new"), http.StatusBadRequest, "something_new"},
		{errors.New("db down"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		Respond(c, nil, tc.err)

		if w.Code != tc.status {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.status, w.Code)
		}
		var body HTTPError
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Code != tc.code || body.Message == "" {
			t.Fatalf("%v: unexpected body %+v", tc.err, body)
		}
	}
}
