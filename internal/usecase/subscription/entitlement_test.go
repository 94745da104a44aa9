package subscription

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLite ignores row locks, so the statement is checked on the postgres
// dialect without a server.
func TestResolveEntitlementLocksSubscription(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost dbname=dry"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var queries []string
	if err := db.Callback().Query().After("gorm:query").Register("test:capture", func(tx *gorm.DB) {
		queries = append(queries, tx.Statement.SQL.String())
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := ResolveEntitlement(db, 1, 1, time.Now(), nil, loc); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var subRead string
	for _, q := range queries {
		if strings.Contains(q, `FROM "subscriptions"`) {
			subRead = q
		}
	}
	if subRead == "" {
		t.Fatalf("no subscription read in %q", queries)
	}
	if !strings.HasSuffix(strings.TrimSpace(subRead), "FOR UPDATE") {
		t.Fatalf("subscription read must lock the row, got %q", subRead)
	}
}
