package db

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/config"
	"github.com/BruksfildServices01/barber-admin/internal/models"
)

func NewDB(cfg *config.Config, logger *slog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("failed to get sql.DB", "err", err)
		os.Exit(1)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		logger.Error("failed to migrate", "err", err)
		os.Exit(1)
	}

	return db
}

// Migrate creates the schema and the partial unique indexes that carry the
// business invariants the tables alone cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Barbershop{},
		&models.User{},
		&models.Barber{},
		&models.BarberServiceCommission{},
		&models.Service{},
		&models.Product{},
		&models.WorkingHours{},
		&models.Client{},
		&models.SubscriptionPlan{},
		&models.PlanService{},
		&models.Subscription{},
		&models.SubscriptionService{},
		&models.Appointment{},
		&models.AppointmentService{},
		&models.AppointmentProduct{},
		&models.Commission{},
		&models.AccountReceivable{},
		&models.AccountPayable{},
		&models.CashRegister{},
		&models.CashMovement{},
		&models.OnlineBooking{},
		&models.PaymentLink{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range invariantIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	return nil
}

var invariantIndexes = []string{
	// one receivable per subscription billing cycle
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_receivables_subscription_period
		ON account_receivables (subscription_id, billing_period)
		WHERE subscription_id IS NOT NULL`,

	// one OPEN cash register system-wide
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_cash_registers_open
		ON cash_registers (status)
		WHERE status = 'OPEN'`,

	// one ACTIVE subscription per client
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_subscriptions_active_client
		ON subscriptions (client_id)
		WHERE status = 'ACTIVE'`,
}
