package audit

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/models"
)

const (
	ActorStaff  = "staff"
	ActorBarber = "barber"
	ActorSystem = "system"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {

	var meta datatypes.JSON
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	kind := ev.ActorKind
	if kind == "" {
		kind = ActorStaff
	}

	entry := models.AuditLog{
		UserID:    ev.UserID,
		ActorKind: kind,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  meta,
	}

	return l.db.WithContext(ctx).Create(&entry).Error
}
