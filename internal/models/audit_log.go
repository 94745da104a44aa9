package models

import (
	"time"

	"gorm.io/datatypes"
)

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID    *uint  `json:"user_id"`
	ActorKind string `gorm:"size:20" json:"actor_kind"`
	Action    string `gorm:"size:50;not null;index" json:"action"`

	Entity   string         `gorm:"size:50;index" json:"entity"`
	EntityID *uint          `json:"entity_id"`
	Metadata datatypes.JSON `json:"metadata"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
