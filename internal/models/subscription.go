package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionPlan struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string          `gorm:"size:100;not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	// Fixed term in days for subscriptions contracted from the plan. 0 is
	// open-ended: the subscription renews every month until canceled.
	DurationDays int `gorm:"not null;default:0" json:"duration_days"`

	// Legacy free-text entitlement. Kept for migration only; PlanService
	// rows are authoritative.
	ServicesIncluded *string `gorm:"type:text" json:"services_included,omitempty"`

	UsageLimit  *int  `json:"usage_limit"`
	IsExclusive bool  `gorm:"default:false" json:"is_exclusive"`
	OwnerID     *uint `json:"owner_id"`
	IsActive    bool  `gorm:"default:true" json:"is_active"`

	Services []PlanService `gorm:"foreignKey:PlanID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PlanService struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	PlanID    uint `gorm:"not null;uniqueIndex:uq_plan_service,priority:1" json:"plan_id"`
	ServiceID uint `gorm:"not null;uniqueIndex:uq_plan_service,priority:2" json:"service_id"`
}

type Subscription struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"not null;index" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	PlanID   *uint           `json:"plan_id"`
	PlanName string          `gorm:"size:100" json:"plan_name"`
	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`

	BillingDay int    `gorm:"not null" json:"billing_day"`
	Status     string `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`

	IsExclusive bool  `gorm:"default:false" json:"is_exclusive"`
	OwnerID     *uint `json:"owner_id"`

	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`

	ServicesIncluded *string `gorm:"type:text" json:"services_included,omitempty"`
	UsageLimit       *int    `json:"usage_limit"`

	Services []SubscriptionService `gorm:"foreignKey:SubscriptionID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubscriptionService is the entitlement snapshot taken at contract time.
type SubscriptionService struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	SubscriptionID uint `gorm:"not null;uniqueIndex:uq_subscription_service,priority:1" json:"subscription_id"`
	ServiceID      uint `gorm:"not null;uniqueIndex:uq_subscription_service,priority:2" json:"service_id"`
}
