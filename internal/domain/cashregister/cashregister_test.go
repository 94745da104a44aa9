package cashregister

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-admin/internal/httperr"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestExpectedAndDifference(t *testing.T) {
	movements := []Movement{
		{Type: MovementEntry, Amount: d("50.00")},
		{Type: MovementEntry, Amount: d("35.00")},
		{Type: MovementExit, Amount: d("20.50")},
	}

	expected := Expected(d("100.00"), movements)
	if !expected.Equal(d("164.50")) {
		t.Fatalf("expected = %s", expected)
	}

	if diff := Difference(d("160.00"), expected); !diff.Equal(d("-4.50")) {
		t.Fatalf("difference = %s", diff)
	}
	if diff := Difference(d("164.50"), expected); !diff.IsZero() {
		t.Fatalf("difference = %s", diff)
	}
}

func TestValidMovement(t *testing.T) {
	if err := ValidMovement(Movement{Type: MovementExit, Amount: d("1")}); err != nil {
		t.Fatalf("valid exit rejected: %v", err)
	}
	if err := ValidMovement(Movement{Type: "REFUND", Amount: d("1")}); !httperr.IsBusiness(err, "invalid_movement_type") {
		t.Fatalf("got %v", err)
	}
	if err := ValidMovement(Movement{Type: MovementEntry, Amount: d("0")}); !httperr.IsBusiness(err, "invalid_amount") {
		t.Fatalf("got %v", err)
	}
}

func TestCanClose(t *testing.T) {
	if CanClose(StatusOpen) != nil {
		t.Fatal("open register must close")
	}
	if !httperr.IsBusiness(CanClose(StatusClosed), "register_not_open") {
		t.Fatal("closed register must not close again")
	}
}
