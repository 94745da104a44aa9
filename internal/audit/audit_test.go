package audit

import (
	"io"
	"log/slog"
	"testing"

	"github.com/BruksfildServices01/barber-admin/internal/models"
	"github.com/BruksfildServices01/barber-admin/internal/testdb"
)

func TestDispatcherWritesEvents(t *testing.T) {
	db := testdb.New(t)
	d := NewDispatcher(New(db), slog.New(slog.NewTextHandler(io.Discard, nil)))

	userID := uint(3)
	entityID := uint(42)
	d.Dispatch(Event{
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &entityID,
		Metadata: map[string]any{"total": "50.00"},
	})
	d.Dispatch(Event{ActorKind: ActorSystem, Action: "receivables_swept"})
	d.Close()

	var logs []models.AuditLog
	if err := db.Order("id").Find(&logs).Error; err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(logs))
	}
	if logs[0].ActorKind != ActorStaff || *logs[0].EntityID != 42 {
		t.Fatalf("unexpected first row %+v", logs[0])
	}
	if string(logs[0].Metadata) != `{"total":"50.00"}` {
		t.Fatalf("metadata = %s", logs[0].Metadata)
	}
	if logs[1].ActorKind != ActorSystem {
		t.Fatalf("unexpected actor %s", logs[1].ActorKind)
	}
}
