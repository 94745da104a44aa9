// Command maintenance runs the batch jobs of the admin backend:
//
//	maintenance sweep
//	maintenance reconcile -year 2025 -month 3
//	maintenance dedupe
//	maintenance migrate-entitlements
//	maintenance serve            (cron: sweep + reconcile, SWEEP_CRON)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-admin/internal/audit"
	"github.com/BruksfildServices01/barber-admin/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-admin/internal/db"
	"github.com/BruksfildServices01/barber-admin/internal/jobs"
	"github.com/BruksfildServices01/barber-admin/internal/logging"
	"github.com/BruksfildServices01/barber-admin/internal/timezone"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/finance"
	"github.com/BruksfildServices01/barber-admin/internal/usecase/subscription"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: maintenance <sweep|reconcile|dedupe|migrate-entitlements|serve> [flags]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := logging.New("barber-admin-maintenance", cfg.LogLevel)

	if !timezone.IsValid(cfg.BusinessTimezone) {
		logger.Error("invalid BUSINESS_TIMEZONE", "tz", cfg.BusinessTimezone)
		os.Exit(1)
	}
	loc := timezone.Location(cfg.BusinessTimezone)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := dbpkg.NewDB(cfg, logger)
	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)

	err := run(ctx, os.Args[1], os.Args[2:], db, cfg, loc, auditDispatcher, logger)

	auditDispatcher.Close()
	if sqlDB, dbErr := db.DB(); dbErr == nil {
		_ = sqlDB.Close()
	}

	if err != nil {
		logger.Error("maintenance failed", "command", os.Args[1], "err", err)
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	command string,
	args []string,
	db *gorm.DB,
	cfg *config.Config,
	loc *time.Location,
	auditDispatcher *audit.Dispatcher,
	logger *slog.Logger,
) error {

	sweeper := finance.NewSweeper(db, loc, logger)
	reconciler := finance.NewReconciler(db, loc, auditDispatcher, logger)

	switch command {
	case "sweep":
		res, err := sweeper.Execute(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)

	case "reconcile":
		now := time.Now().In(loc)
		fs := flag.NewFlagSet("reconcile", flag.ContinueOnError)
		year := fs.Int("year", now.Year(), "billing year")
		month := fs.Int("month", int(now.Month()), "billing month (1-12)")
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *month < 1 || *month > 12 {
			return fmt.Errorf("invalid month %d", *month)
		}

		res, err := reconciler.ReconcileMonth(ctx, *year, time.Month(*month))
		if err != nil {
			return err
		}
		return printJSON(res)

	case "dedupe":
		res, err := reconciler.Dedupe(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)

	case "migrate-entitlements":
		res, err := subscription.NewMigrateEntitlements(db, logger).Execute(ctx)
		if err != nil {
			return err
		}
		return printJSON(res)

	case "serve":
		daily := jobs.NewDaily(sweeper, reconciler, loc, logger)
		c, err := daily.Schedule(cfg.SweepCron)
		if err != nil {
			return err
		}

		c.Start()
		logger.Info("maintenance scheduler started", "schedule", cfg.SweepCron, "tz", loc.String())

		<-ctx.Done()

		// wait for a running job
		<-c.Stop().Done()
		logger.Info("maintenance scheduler stopped")
		return nil

	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
